package routes

import (
	"codefolio/controllers"

	"github.com/gin-gonic/gin"
)

func GetMyStatsRouteHandler(ctx *gin.Context) {
	controllers.GetMyStats(ctx)
}

func GetPublicStatsRouteHandler(ctx *gin.Context) {
	controllers.GetPublicStats(ctx)
}

func VerifyHandleRouteHandler(ctx *gin.Context) {
	controllers.VerifyHandle(ctx)
}

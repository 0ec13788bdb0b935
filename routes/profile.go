package routes

import (
	"codefolio/controllers"

	"github.com/gin-gonic/gin"
)

func GetProfileRouteHandler(ctx *gin.Context) {
	controllers.GetProfile(ctx)
}

func UpdateProfileRouteHandler(ctx *gin.Context) {
	controllers.UpdateProfile(ctx)
}

func UpdatePlatformRouteHandler(ctx *gin.Context) {
	controllers.UpdatePlatform(ctx)
}

func UnlinkPlatformRouteHandler(ctx *gin.Context) {
	controllers.UnlinkPlatform(ctx)
}

func ExportProfileRouteHandler(ctx *gin.Context) {
	controllers.ExportProfile(ctx)
}

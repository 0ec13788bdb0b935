package routes

import (
	"codefolio/controllers"

	"github.com/gin-gonic/gin"
)

func SendMessageRouteHandler(ctx *gin.Context) {
	controllers.SendMessage(ctx)
}

func GetConversationRouteHandler(ctx *gin.Context) {
	controllers.GetConversation(ctx)
}

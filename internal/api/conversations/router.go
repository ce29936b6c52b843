package conversations

import (
	"github.com/gin-gonic/gin"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

func RegisterRoutes(rg *gin.RouterGroup, db *loaders.PostgresClient) {
	svc := NewService(db, nil)
	ctrl := NewController(svc)

	convs := rg.Group("/conversations")
	{
		convs.GET("", ctrl.List)
		convs.GET("/:id", ctrl.Get)
		convs.PATCH("/:id", ctrl.Update)
		convs.POST("/:id/read", ctrl.MarkRead)
		convs.POST("/:id/reply", ctrl.Reply)
	}
}

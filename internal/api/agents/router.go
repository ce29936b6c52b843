package agents

import (
	"github.com/gin-gonic/gin"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

func RegisterRoutes(rg *gin.RouterGroup, db *loaders.PostgresClient) {
	svc := NewService(db)
	ctrl := NewController(svc)

	ag := rg.Group("/agents")
	{
		ag.GET("", ctrl.List)
		ag.POST("", ctrl.Create)
		ag.GET("/:id", ctrl.Get)
		ag.PATCH("/:id", ctrl.Update)
		ag.POST("/:id/default", ctrl.SetDefault)
		ag.DELETE("/:id", ctrl.Delete)
	}
}

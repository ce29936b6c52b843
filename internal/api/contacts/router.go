package contacts

import (
	"github.com/gin-gonic/gin"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

func RegisterRoutes(rg *gin.RouterGroup, db *loaders.PostgresClient) {
	svc := NewService(db)
	ctrl := NewController(svc)

	contacts := rg.Group("/contacts")
	{
		contacts.GET("", ctrl.List)
		contacts.POST("", ctrl.Create)
		contacts.GET("/:id", ctrl.Get)
		contacts.PATCH("/:id", ctrl.Update)
		contacts.DELETE("/:id", ctrl.Delete)
	}
}

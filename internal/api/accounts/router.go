package accounts

import (
	"github.com/gin-gonic/gin"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/cache"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

func RegisterRoutes(rg *gin.RouterGroup, db *loaders.PostgresClient, accCache *cache.AccountCache) {
	svc := NewService(db, accCache)
	ctrl := NewController(svc)

	accs := rg.Group("/whatsapp-accounts")
	{
		accs.GET("", ctrl.List)
		accs.POST("", ctrl.Create)
		accs.GET("/:id", ctrl.Get)
		accs.PATCH("/:id", ctrl.Update)
		accs.DELETE("/:id", ctrl.Delete)
	}
}

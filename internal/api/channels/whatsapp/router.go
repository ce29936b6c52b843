package whatsapp

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/config"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/llm"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/utils"
)

// RegisterRoutes registers the WhatsApp webhook endpoints
func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient, accounts AccountResolver, cfg *config.Config, provider llm.Provider) {
	service := NewService(db, accounts, cfg, provider)
	ctrl := NewController(cfg, service)

	webhooks := router.Group("/api/webhooks")
	{
		// Meta sends GET for verification, POST for events
		webhooks.GET("/whatsapp", ctrl.VerifyWebhook)
		webhooks.POST("/whatsapp", ctrl.Webhook)
	}

	utils.Zlog.Info("WhatsApp webhook routes registered",
		zap.String("verify_endpoint", "/api/webhooks/whatsapp [GET]"),
		zap.String("webhook_endpoint", "/api/webhooks/whatsapp [POST]"))
}

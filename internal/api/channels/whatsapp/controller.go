package whatsapp

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/config"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/utils"
)

// Controller handles the Meta webhook endpoints
type Controller struct {
	cfg     *config.Config
	service *Service
}

// NewController creates a new webhook controller
func NewController(cfg *config.Config, service *Service) *Controller {
	return &Controller{cfg: cfg, service: service}
}

// VerifyWebhook handles Meta's webhook verification handshake
// GET /api/webhooks/whatsapp
func (c *Controller) VerifyWebhook(ctx *gin.Context) {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	if mode == "" && token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "missing verification parameters",
		})
		return
	}

	if mode == "subscribe" && token == c.cfg.VerifyToken {
		ctx.String(http.StatusOK, challenge)
		return
	}

	utils.Zlog.Warn("webhook verification rejected",
		zap.String("mode", mode))
	ctx.JSON(http.StatusForbidden, gin.H{
		"error": "verification_failed",
	})
}

// Webhook handles incoming WhatsApp webhook events
// POST /api/webhooks/whatsapp
func (c *Controller) Webhook(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		utils.Zlog.Error("failed to read webhook body", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "read_failed"})
		return
	}

	// Signature verification is enforced only when an app secret is
	// configured; Meta signs every delivery with X-Hub-Signature-256.
	if c.cfg.AppSecret != "" {
		signature := ctx.GetHeader("X-Hub-Signature-256")
		if err := VerifySignature(signature, body, c.cfg.AppSecret); err != nil {
			utils.Zlog.Warn("webhook signature rejected", zap.Error(err))
			ctx.JSON(http.StatusForbidden, gin.H{"error": "invalid_signature"})
			return
		}
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.Zlog.Error("failed to parse webhook payload", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "invalid_payload"})
		return
	}

	if payload.Object != "whatsapp_business_account" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown_object"})
		return
	}

	// Per-item failures are internal: Meta always gets 200 once the payload
	// parsed, otherwise it retries the whole delivery.
	c.service.ProcessPayload(ctx.Request.Context(), &payload)

	ctx.String(http.StatusOK, "OK")
}

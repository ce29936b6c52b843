package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/api/channels/whatsapp"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/cache"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/config"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/llm"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *loaders.PostgresClient, accCache *cache.AccountCache, cfg *config.Config, provider llm.Provider) {
	// Apply global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID())

	// Webhook traffic resolves accounts through the cache when redis is
	// configured, straight from postgres otherwise.
	var accounts whatsapp.AccountResolver = db
	if accCache != nil {
		accounts = accCache
	}

	SetupHealthRoutes(router, db)
	whatsapp.RegisterRoutes(router, db, accounts, cfg, provider)
	SetupAPIRoutes(router, db, accCache)
	Setup404Handler(router)
}

// Setup404Handler configures the 404 handler
func Setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
			"path":    c.Request.URL.Path,
		})
	})
}

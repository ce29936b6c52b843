package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/api/accounts"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/api/agents"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/api/contacts"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/api/conversations"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/cache"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

// SetupAPIRoutes configures the tenant-scoped dashboard endpoints
func SetupAPIRoutes(router *gin.Engine, db *loaders.PostgresClient, accCache *cache.AccountCache) {
	tenant := router.Group("/api/tenants/:tenantId")

	contacts.RegisterRoutes(tenant, db)
	conversations.RegisterRoutes(tenant, db)
	agents.RegisterRoutes(tenant, db)
	accounts.RegisterRoutes(tenant, db, accCache)
}

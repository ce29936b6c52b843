package agents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/types"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/utils"
)

type Controller struct {
	svc *Service
}

func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) List(ctx *gin.Context) {
	tenantID := ctx.Param("tenantId")
	agents, err := c.svc.List(ctx.Request.Context(), tenantID)
	if err != nil {
		utils.Zlog.Error("failed to list agents", zap.String("tenant_id", tenantID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	if agents == nil {
		agents = []loaders.AIAgent{}
	}
	ctx.JSON(http.StatusOK, gin.H{"agents": agents})
}

func (c *Controller) Get(ctx *gin.Context) {
	agent, err := c.svc.Get(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "agent_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed"})
		return
	}
	ctx.JSON(http.StatusOK, agent)
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	agent, err := c.svc.Create(ctx.Request.Context(), ctx.Param("tenantId"), &req)
	if err != nil {
		utils.Zlog.Warn("agent creation failed", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "create_failed", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, agent)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	agent, err := c.svc.Update(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"), &req)
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "agent_not_found"})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "update_failed", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, agent)
}

func (c *Controller) SetDefault(ctx *gin.Context) {
	err := c.svc.SetDefault(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "agent_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "set_default_failed"})
		return
	}
	ctx.JSON(http.StatusOK, types.BaseResponse{Success: true})
}

func (c *Controller) Delete(ctx *gin.Context) {
	err := c.svc.Delete(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "agent_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	ctx.JSON(http.StatusOK, types.BaseResponse{Success: true})
}

package conversations

import (
	"errors"
	"net/http"
	"strconv"

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
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	convs, err := c.svc.List(ctx.Request.Context(), tenantID, ctx.Query("status"), limit, offset)
	if err != nil {
		utils.Zlog.Error("failed to list conversations", zap.String("tenant_id", tenantID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	if convs == nil {
		convs = []loaders.Conversation{}
	}
	ctx.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (c *Controller) Get(ctx *gin.Context) {
	detail, err := c.svc.Get(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "conversation_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed"})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	conv, err := c.svc.Update(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"), &req)
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "conversation_not_found"})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "update_failed", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, conv)
}

func (c *Controller) MarkRead(ctx *gin.Context) {
	err := c.svc.MarkRead(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "conversation_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "mark_read_failed"})
		return
	}
	ctx.JSON(http.StatusOK, types.BaseResponse{Success: true})
}

func (c *Controller) Reply(ctx *gin.Context) {
	var req ReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	msg, err := c.svc.SendReply(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"), req.Body)
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "conversation_not_found"})
			return
		}
		utils.Zlog.Error("manual reply failed",
			zap.String("conversation_id", ctx.Param("id")),
			zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "reply_failed", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}

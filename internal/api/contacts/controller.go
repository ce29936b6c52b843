package contacts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "50"))

	contacts, total, err := c.svc.List(ctx.Request.Context(), tenantID, ctx.Query("search"), page, pageSize)
	if err != nil {
		utils.Zlog.Error("failed to list contacts", zap.String("tenant_id", tenantID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed", "timestamp": time.Now().UTC()})
		return
	}
	if contacts == nil {
		contacts = []loaders.Contact{}
	}

	ctx.JSON(http.StatusOK, ListResponse{
		Contacts:   contacts,
		Pagination: types.Pagination{Page: page, PageSize: pageSize, Total: total},
	})
}

func (c *Controller) Get(ctx *gin.Context) {
	contact, err := c.svc.Get(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "contact_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed"})
		return
	}
	ctx.JSON(http.StatusOK, contact)
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	contact, err := c.svc.Create(ctx.Request.Context(), ctx.Param("tenantId"), &req)
	if err != nil {
		utils.Zlog.Warn("contact creation failed", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "create_failed", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, contact)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	contact, err := c.svc.Update(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"), &req)
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "contact_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	ctx.JSON(http.StatusOK, contact)
}

func (c *Controller) Delete(ctx *gin.Context) {
	err := c.svc.Delete(ctx.Request.Context(), ctx.Param("tenantId"), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "contact_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	ctx.JSON(http.StatusOK, types.BaseResponse{Success: true})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory"
	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory/dto"
	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{uc: uc, logger: log}
}

func (h *InventoryHandler) RegisterRoutes(r *gin.RouterGroup) {
	inv := r.Group("/inventory")
	{
		inv.GET("/stock", h.CheckStock)
		inv.GET("/low-stock", h.ListLowStock)
		inv.GET("/movements", h.ListMovements)
		inv.GET("/alerts", h.ListAlerts)
		inv.POST("/alerts/:id/resolve", h.ResolveAlert)
		inv.POST("/reserve", h.Reserve)
		inv.POST("/release", h.Release)
		inv.POST("/confirm", h.Confirm)
		inv.POST("/restock", h.Restock)
		inv.POST("/adjust", h.Adjust)
	}
}

func (h *InventoryHandler) CheckStock(c *gin.Context) {
	productID := c.Query("product_id")
	if productID == "" {
		h.writeError(c, &model.ValidationError{Field: "product_id", Reason: "required"})
		return
	}
	var variantID *string
	if v := c.Query("variant_id"); v != "" {
		variantID = &v
	}
	quantity := 1.0
	if q := c.Query("quantity"); q != "" {
		parsed, err := strconv.ParseFloat(q, 64)
		if err != nil || parsed <= 0 {
			h.writeError(c, &model.ValidationError{Field: "quantity", Reason: "must be a positive number"})
			return
		}
		quantity = parsed
	}

	result, err := h.uc.CheckStock(c.Request.Context(), productID, variantID, quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	page, pageSize := pagination(c)
	items, total, err := h.uc.ListLowStock(c.Request.Context(), page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "page": page, "page_size": pageSize})
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	page, pageSize := pagination(c)
	filters := &dto.MovementFilters{
		SKU:          c.Query("sku"),
		ReferenceID:  c.Query("reference_id"),
		MovementType: c.Query("movement_type"),
		Page:         page,
		PageSize:     pageSize,
	}
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeError(c, &model.ValidationError{Field: "start_date", Reason: "must be RFC3339"})
			return
		}
		filters.StartDate = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeError(c, &model.ValidationError{Field: "end_date", Reason: "must be RFC3339"})
			return
		}
		filters.EndDate = &t
	}

	movements, total, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements, "total": total, "page": page, "page_size": pageSize})
}

func (h *InventoryHandler) Reserve(c *gin.Context) {
	var input dto.ReserveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.writeError(c, &model.ValidationError{Field: "body", Reason: "invalid json"})
		return
	}
	if err := h.uc.Reserve(c.Request.Context(), &input); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": input.OrderID, "reserved": len(input.Items)})
}

type orderRefInput struct {
	OrderID string `json:"order_id"`
}

func (h *InventoryHandler) Release(c *gin.Context) {
	var input orderRefInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.writeError(c, &model.ValidationError{Field: "body", Reason: "invalid json"})
		return
	}
	released, err := h.uc.Release(c.Request.Context(), input.OrderID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": input.OrderID, "released": released})
}

func (h *InventoryHandler) Confirm(c *gin.Context) {
	var input orderRefInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.writeError(c, &model.ValidationError{Field: "body", Reason: "invalid json"})
		return
	}
	confirmed, err := h.uc.Confirm(c.Request.Context(), input.OrderID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": input.OrderID, "confirmed": confirmed})
}

func (h *InventoryHandler) Restock(c *gin.Context) {
	var input dto.RestockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.writeError(c, &model.ValidationError{Field: "body", Reason: "invalid json"})
		return
	}
	item, err := h.uc.Restock(c.Request.Context(), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	var input dto.AdjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.writeError(c, &model.ValidationError{Field: "body", Reason: "invalid json"})
		return
	}
	item, err := h.uc.Adjust(c.Request.Context(), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	page, pageSize := pagination(c)
	unresolvedOnly := c.Query("unresolved") != "false"
	alerts, total, err := h.uc.ListAlerts(c.Request.Context(), unresolvedOnly, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": total, "page": page, "page_size": pageSize})
}

func (h *InventoryHandler) ResolveAlert(c *gin.Context) {
	userID := c.GetString("user_id")
	if err := h.uc.ResolveAlert(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": true})
}

func (h *InventoryHandler) writeError(c *gin.Context, err error) {
	var validation *model.ValidationError
	var insufficient *model.InsufficientStockError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":     insufficient.Error(),
			"sku":       insufficient.SKU,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	default:
		h.logger.Error("inventory request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

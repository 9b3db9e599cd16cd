package handler

import (
	"net/http"
	"strconv"

	"intercolor/internal/dto"
	"intercolor/internal/middleware"
	"intercolor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct {
	svc service.StockService
}

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// Adjust godoc
// @Summary  Apply a manual stock movement
// @Tags     stock
// @Accept   json
// @Produce  json
// @Param    id      path string                 true "product id"
// @Param    request body dto.AdjustStockRequest true "movement"
// @Success  200 {object} dto.StockHistoryEntry
// @Router   /api/admin/stock/products/{id}/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var actorID *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil {
		actorID = &claims.UserID
	}

	resp, err := h.svc.Adjust(c.Request.Context(), id, req, actorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	middleware.StockAdjustmentsTotal.WithLabelValues(req.Type).Inc()
	c.JSON(http.StatusOK, resp)
}

// History serves both the global movement log and the per-product variant
// (when mounted under /products/:id/history).
func (h *StockHandler) History(c *gin.Context) {
	var productID *uuid.UUID
	if c.Param("id") != "" {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		productID = &id
	} else if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err == nil {
			productID = &id
		}
	}
	timeRange := c.Query("timeRange")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	entries, total, err := h.svc.History(c.Request.Context(), productID, timeRange, page, perPage)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries, "total": total, "page": page, "per_page": perPage})
}

func (h *StockHandler) SetAlert(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetStockAlertRequest
	if !bindAndValidate(c, &req) {
		return
	}

	alert, err := h.svc.SetAlert(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *StockHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Rotation(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.Rotation(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

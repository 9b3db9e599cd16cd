package handler

import (
	"net/http"
	"strconv"

	"intercolor/internal/apierror"
	"intercolor/internal/dto"
	"intercolor/internal/middleware"
	"intercolor/internal/model"
	"intercolor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func requireClaims(c *gin.Context) (*middleware.JWTClaims, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token de autenticacion requerido"))
		return nil, false
	}
	return claims, true
}

// Create godoc
// @Summary  Convert the cart into an order after payment capture
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    request body dto.CreateOrderRequest true "checkout data"
// @Success  201 {object} dto.OrderResponse
// @Router   /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	middleware.OrdersCreatedTotal.Inc()
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) Get(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), id, claims.UserID, claims.Role == model.RoleAdmin)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	resp, err := h.svc.ListForUser(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) List(c *gin.Context) {
	filter := dto.OrderListFilter{}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.UserID = &id
		}
	}

	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary  Transition an order's status
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id      path string                       true "order id"
// @Param    request body dto.UpdateOrderStatusRequest true "new status"
// @Success  200 {object} dto.OrderResponse
// @Router   /api/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req, &claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) StatusHistory(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.StatusHistory(c.Request.Context(), id, claims.UserID, claims.Role == model.RoleAdmin)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

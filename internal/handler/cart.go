package handler

import (
	"net/http"

	"intercolor/internal/apierror"
	"intercolor/internal/dto"
	"intercolor/internal/middleware"
	"intercolor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	svc service.CartService
}

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token de autenticacion requerido"))
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Add godoc
// @Summary  Add a product to the cart
// @Tags     cart
// @Accept   json
// @Produce  json
// @Param    request body dto.AddCartItemRequest true "item"
// @Success  200 {object} dto.CartResponse
// @Router   /api/cart/add [post]
func (h *CartHandler) Add(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Add(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.svc.Clear(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"intercolor/internal/apierror"
	"intercolor/internal/dto"
	"intercolor/internal/middleware"
	"intercolor/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary  Register a new customer account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body dto.RegisterRequest true "registration data"
// @Success  201 {object} dto.AuthResponse
// @Router   /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary  Authenticate and obtain a JWT
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body dto.LoginRequest true "credentials"
// @Success  200 {object} dto.AuthResponse
// @Router   /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile returns the authenticated user's account data.
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token de autenticacion requerido"))
		return
	}

	resp, err := h.svc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

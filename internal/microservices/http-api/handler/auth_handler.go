package handler

import (
	"net/http"

	"codeconnect/internal/microservices/http-api/middleware"
	"codeconnect/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers auth routes; both need a verified token
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	auth := router.Group("/auth", requireAuth)
	{
		auth.POST("/verify", h.Verify)
		auth.GET("/me", h.Me)
	}
}

// Verify returns the profile the token resolved to. The upsert already
// happened in the auth middleware.
// POST /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Token verified successfully")
}

// Me returns the caller's stored profile
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "")
}

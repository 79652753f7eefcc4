package handler

import (
	"context"
	"net/http"

	"codeconnect/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIVersion is reported by the root banner
const APIVersion = "2.0.0"

// SystemHandler serves the banner, the health check and the 404 fallback
type SystemHandler struct {
	ping func(ctx context.Context) error
}

// NewSystemHandler takes the database ping used by /health; nil skips it
func NewSystemHandler(ping func(ctx context.Context) error) *SystemHandler {
	return &SystemHandler{ping: ping}
}

func (h *SystemHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.NoRoute(h.NotFound)
}

// GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "CodeConnect API",
		"version": APIVersion,
		"endpoints": gin.H{
			"health":    "/health",
			"auth":      "/api/auth",
			"projects":  "/api/projects",
			"comments":  "/api/comments",
			"users":     "/api/users",
			"bookmarks": "/api/bookmarks",
		},
	})
}

// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			logger.FromGin(c).Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "ERROR",
				"message": "Database unavailable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "CodeConnect API is running",
	})
}

func (h *SystemHandler) NotFound(c *gin.Context) {
	respondFailure(c, http.StatusNotFound, "Route not found")
}

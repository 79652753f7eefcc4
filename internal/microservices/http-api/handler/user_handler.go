package handler

import (
	"net/http"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/middleware"
	"codeconnect/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers the directory, stats and profile routes. The
// static segments are registered before :userId.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/stats", h.Stats)
		users.PUT("/profile", requireAuth, h.UpdateProfile)
		users.GET("/:userId", h.GetProfile)
		users.GET("/:userId/projects", h.ListProjects)
	}
}

// List is the user directory
// GET /api/users?search=&page=1&limit=12
func (h *UserHandler) List(c *gin.Context) {
	var query dto.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page.Data, page.Pagination)
}

// GET /api/users/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.userService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats, "")
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Profile updated successfully")
}

// GET /api/users/:userId
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "")
}

// GET /api/users/:userId/projects?page=1&limit=12
func (h *UserHandler) ListProjects(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.userService.ListProjects(c.Request.Context(), c.Param("userId"), query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page.Data, page.Pagination)
}

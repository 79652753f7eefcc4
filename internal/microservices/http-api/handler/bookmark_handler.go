package handler

import (
	"net/http"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/middleware"
	"codeconnect/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	bookmarkService service.BookmarkService
}

func NewBookmarkHandler(bookmarkService service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

// RegisterRoutes registers bookmark routes; all of them are per caller
func (h *BookmarkHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	bookmarks := router.Group("/bookmarks", requireAuth)
	{
		bookmarks.GET("", h.List)
		bookmarks.POST("/:projectId", h.Toggle)
		bookmarks.GET("/check/:projectId", h.Check)
	}
}

// List returns the caller's bookmarked projects, most recent bookmark first
// GET /api/bookmarks?page=1&limit=12
func (h *BookmarkHandler) List(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.bookmarkService.List(c.Request.Context(), middleware.CurrentIdentity(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page.Data, page.Pagination)
}

// POST /api/bookmarks/:projectId
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	status, err := h.bookmarkService.Toggle(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("projectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Bookmark removed"
	if status.Bookmarked {
		message = "Bookmark added"
	}
	respond(c, http.StatusOK, status, message)
}

// GET /api/bookmarks/check/:projectId
func (h *BookmarkHandler) Check(c *gin.Context) {
	status, err := h.bookmarkService.Check(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("projectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, status, "")
}

package handler

import (
	"net/http"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/middleware"
	"codeconnect/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment routes. gin needs one wildcard name per
// segment, so :id is the project on GET/POST and the comment otherwise.
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	comments := router.Group("/comments")
	{
		comments.GET("/:id", h.ListByProject)
		comments.POST("/:id", requireAuth, h.Create)
		comments.DELETE("/:id", requireAuth, h.Delete)
		comments.POST("/:id/like", requireAuth, h.ToggleLike)
	}
}

// ListByProject returns a project's comments, newest first
// GET /api/comments/:projectId
func (h *CommentHandler) ListByProject(c *gin.Context) {
	comments, err := h.commentService.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	count := len(comments)
	c.JSON(http.StatusOK, dto.Response{Success: true, Data: comments, Count: &count})
}

// POST /api/comments/:projectId
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, comment, "Comment added successfully")
}

// Delete removes the caller's own comment
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.commentService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Comment deleted successfully")
}

// POST /api/comments/:id/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	result, err := h.commentService.ToggleLike(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "")
}

package handler

import (
	"net/http"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/middleware"
	"codeconnect/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService service.ProjectService
	ratingService  service.RatingService
}

func NewProjectHandler(projectService service.ProjectService, ratingService service.RatingService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		ratingService:  ratingService,
	}
}

// RegisterRoutes registers project routes, ratings included since they hang
// off /projects/:id
func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	projects := router.Group("/projects")
	{
		// Public routes
		projects.GET("", h.List)
		projects.GET("/:id", h.Get)
		projects.GET("/:id/ratings", h.RatingDistribution)

		// Protected routes
		projects.POST("", requireAuth, h.Create)
		projects.PUT("/:id", requireAuth, h.Update)
		projects.DELETE("/:id", requireAuth, h.Delete)
		projects.POST("/:id/like", requireAuth, h.ToggleLike)
		projects.POST("/:id/rate", requireAuth, h.Rate)
		projects.GET("/:id/rating/user", requireAuth, h.MyRating)
		projects.DELETE("/:id/rating", requireAuth, h.DeleteRating)
	}
}

// List returns one page of projects
// GET /api/projects?search=&tags=go,react&sortBy=popular&page=1&limit=12
func (h *ProjectHandler) List(c *gin.Context) {
	var query dto.ProjectListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.projectService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page.Data, page.Pagination)
}

// Get returns a project and counts the view
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, project, "")
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, project, "Project created successfully")
}

// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, project, "Project updated successfully")
}

// Delete removes the project with its comments, ratings and bookmarks
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	result, err := h.projectService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "Project deleted successfully")
}

// POST /api/projects/:id/like
func (h *ProjectHandler) ToggleLike(c *gin.Context) {
	result, err := h.projectService.ToggleLike(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "")
}

// Rate creates or replaces the caller's rating
// POST /api/projects/:id/rate
func (h *ProjectHandler) Rate(c *gin.Context) {
	var req dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rating, created, err := h.ratingService.Submit(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	if created {
		respond(c, http.StatusCreated, rating, "Rating added")
		return
	}
	respond(c, http.StatusOK, rating, "Rating updated")
}

// MyRating returns {rating: n}, or {rating: null} when the caller has not rated
// GET /api/projects/:id/rating/user
func (h *ProjectHandler) MyRating(c *gin.Context) {
	rating, err := h.ratingService.GetMine(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rating == nil {
		respond(c, http.StatusOK, gin.H{"rating": nil}, "")
		return
	}
	respond(c, http.StatusOK, rating, "")
}

// GET /api/projects/:id/ratings
func (h *ProjectHandler) RatingDistribution(c *gin.Context) {
	summary, err := h.ratingService.Distribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary, "")
}

// DELETE /api/projects/:id/rating
func (h *ProjectHandler) DeleteRating(c *gin.Context) {
	if err := h.ratingService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Rating deleted")
}

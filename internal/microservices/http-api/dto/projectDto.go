package dto

import (
	"strings"
	"time"

	"codeconnect/internal/microservices/http-api/models"
)

// CreateProjectRequest for publishing a project
type CreateProjectRequest struct {
	Title       string   `json:"title" binding:"required,max=100"`
	DisplayName string   `json:"displayName" binding:"omitempty,max=15"`
	Description string   `json:"description" binding:"required,max=2000"`
	Tags        []string `json:"tags"`
	GithubRepo  string   `json:"githubRepo" binding:"omitempty,githuburl"`
	LiveDemo    string   `json:"liveDemo" binding:"omitempty,httpurl"`
	Thumbnail   string   `json:"thumbnail"`
}

// UpdateProjectRequest: nil fields are left alone. Tags, when present,
// replace the whole set.
type UpdateProjectRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=100"`
	DisplayName *string  `json:"displayName" binding:"omitempty,max=15"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Tags        []string `json:"tags"`
	GithubRepo  *string  `json:"githubRepo" binding:"omitempty,githuburl"`
	LiveDemo    *string  `json:"liveDemo" binding:"omitempty,httpurl"`
	Thumbnail   *string  `json:"thumbnail"`
}

// ProjectListQuery are the query parameters of GET /api/projects
type ProjectListQuery struct {
	PageQuery
	Search string `form:"search"`
	Tags   string `form:"tags"`
	SortBy string `form:"sortBy"`
}

// TagList splits the comma separated tags parameter
func (q ProjectListQuery) TagList() []string {
	if strings.TrimSpace(q.Tags) == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(q.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ProjectResponse is the public shape of a project
type ProjectResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	DisplayName   string               `json:"displayName"`
	Description   string               `json:"description"`
	Tags          []string             `json:"tags"`
	GithubRepo    string               `json:"githubRepo"`
	LiveDemo      string               `json:"liveDemo"`
	Thumbnail     string               `json:"thumbnail"`
	AuthorID      string               `json:"authorId"`
	AuthorName    string               `json:"authorName"`
	AuthorEmail   string               `json:"authorEmail"`
	AuthorPhoto   string               `json:"authorPhoto"`
	Likes         []string             `json:"likes"`
	LikesCount    int                  `json:"likesCount"`
	ViewsCount    int                  `json:"viewsCount"`
	CommentsCount int                  `json:"commentsCount"`
	Rating        models.RatingSummary `json:"rating"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// FromModelToProjectResponse converts a Project model to ProjectResponse DTO
func FromModelToProjectResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		Title:         p.Title,
		DisplayName:   p.DisplayName,
		Description:   p.Description,
		Tags:          p.TagNames(),
		GithubRepo:    p.GithubRepo,
		LiveDemo:      p.LiveDemo,
		Thumbnail:     p.Thumbnail,
		AuthorID:      p.Author.ID,
		AuthorName:    p.Author.Name,
		AuthorEmail:   p.Author.Email,
		AuthorPhoto:   p.Author.Photo,
		Likes:         p.LikerIDs(),
		LikesCount:    p.LikesCount,
		ViewsCount:    p.ViewsCount,
		CommentsCount: p.CommentsCount,
		Rating:        p.Rating,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromModelsToProjectResponses(projects []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, FromModelToProjectResponse(&projects[i]))
	}
	return out
}

// PaginatedProjectResponse is one page of projects
type PaginatedProjectResponse struct {
	Data       []ProjectResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// DeleteProjectResponse reports what the cascade removed
type DeleteProjectResponse struct {
	DeletedComments  int64 `json:"deletedComments"`
	DeletedBookmarks int64 `json:"deletedBookmarks"`
	DeletedRatings   int64 `json:"deletedRatings"`
}

package dto

import (
	"time"

	"codeconnect/internal/microservices/http-api/models"
)

// CreateCommentDTO for creating a comment
type CreateCommentDTO struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	AuthorPhoto string    `json:"authorPhoto"`
	Text        string    `json:"text"`
	Likes       []string  `json:"likes"`
	LikesCount  int       `json:"likesCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		ProjectID:   c.ProjectID,
		AuthorID:    c.Author.ID,
		AuthorName:  c.Author.Name,
		AuthorPhoto: c.Author.Photo,
		Text:        c.Text,
		Likes:       c.LikerIDs(),
		LikesCount:  c.LikesCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

package dto

import (
	"time"

	"codeconnect/internal/microservices/http-api/models"
)

// CreateRatingDTO for creating or updating a rating. The range check lives in
// the service so the client sees the domain message.
type CreateRatingDTO struct {
	Rating int `json:"rating"`
}

// RatingResponse for returning the caller's stored rating
type RatingResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(r *models.Rating) *RatingResponse {
	return &RatingResponse{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		UserID:    r.UserID,
		Rating:    r.Value,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// UserRatingResponse is the caller's own rating value
type UserRatingResponse struct {
	Rating int `json:"rating"`
}

// RatingDistributionResponse summarizes every rating of a project. The
// distribution always has keys 1 through 5.
type RatingDistributionResponse struct {
	Average      float64       `json:"average"`
	Count        int           `json:"count"`
	Distribution map[int]int64 `json:"distribution"`
}

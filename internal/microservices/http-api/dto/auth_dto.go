package dto

import (
	"time"

	"codeconnect/internal/microservices/http-api/models"
)

// Data Transfer Objects for identities and profiles

// UserResponse: the mirrored profile of one identity
type UserResponse struct {
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	PhotoURL     string     `json:"photoURL"`
	Bio          string     `json:"bio"`
	Location     string     `json:"location"`
	Website      string     `json:"website"`
	Github       string     `json:"github"`
	Twitter      string     `json:"twitter"`
	Linkedin     string     `json:"linkedin"`
	Skills       []string   `json:"skills"`
	Provider     string     `json:"provider"`
	IsAdmin      bool       `json:"isAdmin"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ProjectCount *int64     `json:"projectCount,omitempty"`
}

// FromModelToUserResponse converts a User model to UserResponse DTO
func FromModelToUserResponse(u *models.User) *UserResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return &UserResponse{
		UID:         u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Bio:         u.Bio,
		Location:    u.Location,
		Website:     u.Website,
		Github:      u.Github,
		Twitter:     u.Twitter,
		Linkedin:    u.Linkedin,
		Skills:      skills,
		Provider:    u.Provider,
		IsAdmin:     u.IsAdmin,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
}

// UpdateProfileRequest: the allow-listed profile fields. Only non-nil fields change.
type UpdateProfileRequest struct {
	DisplayName *string  `json:"displayName" binding:"omitempty,max=15"`
	Bio         *string  `json:"bio" binding:"omitempty,max=500"`
	Location    *string  `json:"location" binding:"omitempty,max=100"`
	Website     *string  `json:"website" binding:"omitempty,max=200"`
	Github      *string  `json:"github" binding:"omitempty,max=100"`
	Twitter     *string  `json:"twitter" binding:"omitempty,max=100"`
	Linkedin    *string  `json:"linkedin" binding:"omitempty,max=100"`
	Skills      []string `json:"skills" binding:"omitempty,max=30,dive,max=50"`
	PhotoURL    *string  `json:"photoURL" binding:"omitempty,httpurl"`
}

// UserListQuery are the query parameters of GET /api/users
type UserListQuery struct {
	PageQuery
	Search string `form:"search"`
}

// PaginatedUserResponse is one page of the user directory
type PaginatedUserResponse struct {
	Data       []UserResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// StatsResponse: platform-wide numbers for the landing page
type StatsResponse struct {
	TotalProjects        int64             `json:"totalProjects"`
	TotalUsers           int64             `json:"totalUsers"`
	MostLikedProjects    []ProjectResponse `json:"mostLikedProjects"`
	HighestRatedProjects []ProjectResponse `json:"highestRatedProjects"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is one identity's star rating of one project. The unique index makes
// a second submission an overwrite rather than a new row.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"size:128;not null;uniqueIndex:idx_ratings_user_project"`
	ProjectID string    `json:"projectId" gorm:"size:36;not null;uniqueIndex:idx_ratings_user_project;index"`
	Value     int       `json:"rating" gorm:"not null;check:value >= 1 AND value <= 5"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func (Rating) TableName() string {
	return "ratings"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bookmark has no Project association: a bookmark may outlive its project,
// and listings filter those out.
type Bookmark struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"size:128;not null;uniqueIndex:idx_bookmarks_user_project"`
	ProjectID string    `json:"projectId" gorm:"size:36;not null;uniqueIndex:idx_bookmarks_user_project"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

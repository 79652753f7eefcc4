package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	ProjectID  string         `json:"projectId" gorm:"size:36;not null;index"`
	Author     AuthorSnapshot `json:"author" gorm:"embedded;embeddedPrefix:author_"`
	Text       string         `json:"text" gorm:"size:1000;not null"`
	LikesCount int            `json:"likesCount" gorm:"not null;default:0"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`

	Likes []CommentLike `json:"-" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) LikerIDs() []string {
	ids := make([]string, 0, len(c.Likes))
	for _, l := range c.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

type CommentLike struct {
	CommentID string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:128"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthorSnapshot is the author's identity as it was when the record was
// created. It is copied, never joined back to users.
type AuthorSnapshot struct {
	ID    string `json:"uid" gorm:"column:id;size:128;not null;index"`
	Name  string `json:"name" gorm:"column:name;size:100"`
	Email string `json:"email" gorm:"column:email;size:320"`
	Photo string `json:"photoURL" gorm:"column:photo"`
}

// RatingSummary is the derived aggregate over a project's ratings rows.
type RatingSummary struct {
	Average float64 `json:"average" gorm:"column:average;not null;default:0"`
	Count   int     `json:"count" gorm:"column:count;not null;default:0"`
}

type Project struct {
	ID            string         `json:"id" gorm:"primaryKey;size:36"`
	Title         string         `json:"title" gorm:"size:100;not null"`
	DisplayName   string         `json:"displayName" gorm:"size:15"`
	Description   string         `json:"description" gorm:"size:2000;not null"`
	GithubRepo    string         `json:"githubRepo"`
	LiveDemo      string         `json:"liveDemo"`
	Thumbnail     string         `json:"thumbnail"`
	Author        AuthorSnapshot `json:"author" gorm:"embedded;embeddedPrefix:author_"`
	LikesCount    int            `json:"likesCount" gorm:"not null;default:0"`
	ViewsCount    int            `json:"viewsCount" gorm:"not null;default:0"`
	CommentsCount int            `json:"commentsCount" gorm:"not null;default:0"`
	Rating        RatingSummary  `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`

	// association
	Tags  []ProjectTag  `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`
	Likes []ProjectLike `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (Project) TableName() string {
	return "projects"
}

// TagNames returns the tags in their stored order
func (p *Project) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Tag)
	}
	return names
}

// LikerIDs returns the ids of every identity that liked the project
func (p *Project) LikerIDs() []string {
	ids := make([]string, 0, len(p.Likes))
	for _, l := range p.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

type ProjectTag struct {
	ProjectID string `gorm:"primaryKey;size:36"`
	Tag       string `gorm:"primaryKey;size:50;index"`
	Position  int    `gorm:"not null;default:0"`
}

func (ProjectTag) TableName() string {
	return "project_tags"
}

type ProjectLike struct {
	ProjectID string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:128"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ProjectLike) TableName() string {
	return "project_likes"
}

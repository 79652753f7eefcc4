package models

import (
	"time"
)

// User mirrors an external identity. The ID is the identity provider's uid
// and never changes; the row is upserted on every verified request.
type User struct {
	ID          string     `gorm:"primaryKey;size:128" json:"uid"`
	Email       string     `gorm:"uniqueIndex;size:320;not null" json:"email"`
	DisplayName string     `gorm:"size:100" json:"displayName"`
	PhotoURL    string     `json:"photoURL"`
	Bio         string     `gorm:"size:500" json:"bio"`
	Location    string     `gorm:"size:100" json:"location"`
	Website     string     `gorm:"size:200" json:"website"`
	Github      string     `gorm:"size:100" json:"github"`
	Twitter     string     `gorm:"size:100" json:"twitter"`
	Linkedin    string     `gorm:"size:100" json:"linkedin"`
	Skills      []string   `gorm:"type:text;serializer:json" json:"skills"`
	Provider    string     `gorm:"size:20;not null;default:'email'" json:"provider"`
	IsAdmin     bool       `gorm:"not null;default:false" json:"isAdmin"`
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// AllModels lists every table the service owns, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&ProjectTag{},
		&ProjectLike{},
		&Comment{},
		&CommentLike{},
		&Rating{},
		&Bookmark{},
	}
}

package repository

import (
	"context"
	"fmt"

	"codeconnect/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookmarkRepository interface {
	Toggle(ctx context.Context, userID, projectID string) (bool, error)
	Exists(ctx context.Context, userID, projectID string) (bool, error)
	ListProjects(ctx context.Context, userID string, page, limit int) ([]models.Project, int64, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Toggle removes the bookmark if present, otherwise creates it, and reports
// whether the project is bookmarked afterwards.
func (r *bookmarkRepository) Toggle(ctx context.Context, userID, projectID string) (bool, error) {
	bookmarked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND project_id = ?", userID, projectID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return fmt.Errorf("remove bookmark: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// a concurrent toggle that inserted first wins; ours becomes a no-op
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Bookmark{UserID: userID, ProjectID: projectID}).Error
		if err != nil {
			return fmt.Errorf("add bookmark: %w", err)
		}
		bookmarked = true
		return nil
	})
	return bookmarked, err
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return count > 0, nil
}

// ListProjects pages through the projects a user bookmarked, most recently
// bookmarked first. Bookmarks whose project is gone are skipped and not counted.
func (r *bookmarkRepository) ListProjects(ctx context.Context, userID string, page, limit int) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Joins("JOIN projects ON projects.id = bookmarks.project_id").
		Where("bookmarks.user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count bookmarks: %w", err)
	}

	err = r.db.WithContext(ctx).Model(&models.Project{}).
		Joins("JOIN bookmarks ON bookmarks.project_id = projects.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Limit(limit).
		Offset(offset(page, limit)).
		Preload("Tags", orderTags).
		Preload("Likes").
		Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list bookmarks: %w", err)
	}

	return projects, total, nil
}

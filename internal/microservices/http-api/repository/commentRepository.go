package repository

import (
	"context"
	"fmt"

	"codeconnect/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, comment *models.Comment) (parentUpdated bool, err error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Comment, error)
	ToggleLike(ctx context.Context, commentID, userID string) (*ToggleResult, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the parent's comments_count together.
// Returns gorm.ErrRecordNotFound when the parent project does not exist.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Clauses(forUpdate).Select("id").First(&project, "id = ?", comment.ProjectID).Error; err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		if err := tx.Model(&models.Project{}).Where("id = ?", comment.ProjectID).
			UpdateColumn("comments_count", incrementExpr("comments_count")).Error; err != nil {
			return fmt.Errorf("increment comments count: %w", err)
		}
		return nil
	})
}

// Delete removes the comment and its likes, then decrements the parent's
// comments_count floored at zero. A missing parent is not an error; the
// returned flag says whether a parent row was touched.
func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) (bool, error) {
	parentUpdated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return fmt.Errorf("delete comment likes: %w", err)
		}
		res := tx.Where("id = ?", comment.ID).Delete(&models.Comment{})
		if res.Error != nil {
			return fmt.Errorf("delete comment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// already gone; the counter was adjusted by whoever removed it
			return gorm.ErrRecordNotFound
		}
		res = tx.Model(&models.Project{}).Where("id = ?", comment.ProjectID).
			UpdateColumn("comments_count", decrementExpr("comments_count"))
		if res.Error != nil {
			return fmt.Errorf("decrement comments count: %w", res.Error)
		}
		parentUpdated = res.RowsAffected > 0
		return nil
	})
	return parentUpdated, err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Likes").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByProject returns every comment on a project, newest first
func (r *commentRepository) ListByProject(ctx context.Context, projectID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("Likes").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// ToggleLike flips the caller's like on a comment under the comment row lock
func (r *commentRepository) ToggleLike(ctx context.Context, commentID, userID string) (*ToggleResult, error) {
	result := &ToggleResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Clauses(forUpdate).Select("id").First(&comment, "id = ?", commentID).Error; err != nil {
			return err
		}

		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return fmt.Errorf("remove comment like: %w", res.Error)
		}

		expr := decrementExpr("likes_count")
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.CommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
				return fmt.Errorf("add comment like: %w", err)
			}
			expr = incrementExpr("likes_count")
			result.Liked = true
		}

		if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes_count", expr).Error; err != nil {
			return fmt.Errorf("update comment likes count: %w", err)
		}
		return tx.Model(&models.Comment{}).Select("likes_count").
			Where("id = ?", commentID).Scan(&result.LikesCount).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

package repository

import (
	"context"
	"fmt"

	"codeconnect/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, userID, projectID string) error
	GetByUserAndProject(ctx context.Context, userID, projectID string) (*models.Rating, error)
	ValuesByProject(ctx context.Context, projectID string) ([]int, error)
	Distribution(ctx context.Context, projectID string) (map[int]int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert inserts the rating or overwrites the value of the caller's existing
// one. The (user_id, project_id) unique index is the conflict target.
func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(rating).Error
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// Delete removes the caller's rating. Returns gorm.ErrRecordNotFound if there was none.
func (r *ratingRepository) Delete(ctx context.Context, userID, projectID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.Rating{})
	if res.Error != nil {
		return fmt.Errorf("delete rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ratingRepository) GetByUserAndProject(ctx context.Context, userID, projectID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ValuesByProject loads every rating value for a project
func (r *ratingRepository) ValuesByProject(ctx context.Context, projectID string) ([]int, error) {
	var values []int
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("project_id = ?", projectID).
		Pluck("value", &values).Error
	if err != nil {
		return nil, fmt.Errorf("load rating values: %w", err)
	}
	return values, nil
}

// Distribution counts ratings per star value; values with no ratings are absent
func (r *ratingRepository) Distribution(ctx context.Context, projectID string) (map[int]int64, error) {
	var rows []struct {
		Value int
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("value, COUNT(*) AS total").
		Where("project_id = ?", projectID).
		Group("value").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}

	dist := make(map[int]int64, len(rows))
	for _, row := range rows {
		dist[row.Value] = row.Total
	}
	return dist, nil
}

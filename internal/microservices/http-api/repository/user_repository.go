package repository

import (
	"context"
	"fmt"

	"codeconnect/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the data operations on mirrored identities.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateColumns(ctx context.Context, user *models.User, columns []string) error
	List(ctx context.Context, search string, page, limit int) ([]models.User, int64, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user unless a row with the same id already exists, in
// which case it does nothing. Two first requests from one identity can race here.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(user).Error
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	// return nil on miss so callers never mistake a zero-value user for a hit
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateColumns writes only the named columns. Zero values are written too.
func (r *userRepository) UpdateColumns(ctx context.Context, user *models.User, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).Select(columns).Updates(user)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List pages through users, optionally matching display name or bio
func (r *userRepository) List(ctx context.Context, search string, page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		pattern := likePattern(search)
		return db.Where(`(LOWER(display_name) LIKE ? ESCAPE '\' OR LOWER(bio) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	if err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset(page, limit)).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

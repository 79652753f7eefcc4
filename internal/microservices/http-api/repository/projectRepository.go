package repository

import (
	"context"
	"errors"
	"fmt"

	"codeconnect/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectSort string

const (
	SortRecent  ProjectSort = "recent"
	SortPopular ProjectSort = "popular"
	SortRated   ProjectSort = "rated"
)

// ProjectFilter selects a page of projects. Empty fields do not filter.
type ProjectFilter struct {
	Search   string
	Tags     []string
	AuthorID string
	Sort     ProjectSort
	Page     int
	Limit    int
}

// CascadeResult counts the dependent rows removed with a project
type CascadeResult struct {
	Comments  int64
	Bookmarks int64
	Ratings   int64
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Exists(ctx context.Context, id string) (bool, error)
	IncrementViews(ctx context.Context, id string) error
	Update(ctx context.Context, project *models.Project, columns []string, tags []string) error
	DeleteCascade(ctx context.Context, id string) (*CascadeResult, error)
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)
	ToggleLike(ctx context.Context, projectID, userID string) (*ToggleResult, error)
	SetRatingSummary(ctx context.Context, id string, summary models.RatingSummary) error
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountAuthors(ctx context.Context) (int64, error)
	TopLiked(ctx context.Context, n int) ([]models.Project, error)
	TopRated(ctx context.Context, n int) ([]models.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByID loads a project with its tags and likers. Returns gorm.ErrRecordNotFound when absent.
func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Tags", orderTags).
		Preload("Likes").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check project exists: %w", err)
	}
	return count > 0, nil
}

// IncrementViews bumps views_count in one statement
func (r *projectRepository) IncrementViews(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("views_count", incrementExpr("views_count"))
	if res.Error != nil {
		return fmt.Errorf("increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Update writes the named columns from project and, when tags is non-nil,
// replaces the tag set. Both happen in one transaction.
func (r *projectRepository) Update(ctx context.Context, project *models.Project, columns []string, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			res := tx.Model(&models.Project{ID: project.ID}).Select(columns).Updates(project)
			if res.Error != nil {
				return fmt.Errorf("update project: %w", res.Error)
			}
		}
		if tags == nil {
			return nil
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectTag{}).Error; err != nil {
			return fmt.Errorf("clear project tags: %w", err)
		}
		if len(tags) == 0 {
			return nil
		}
		if err := tx.Create(tagRows(project.ID, tags)).Error; err != nil {
			return fmt.Errorf("insert project tags: %w", err)
		}
		return nil
	})
}

// DeleteCascade removes everything that references the project and then the
// project itself, in one transaction. The project row goes last.
func (r *projectRepository) DeleteCascade(ctx context.Context, id string) (*CascadeResult, error) {
	result := &CascadeResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return fmt.Errorf("delete comment likes: %w", err)
		}

		res := tx.Where("project_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return fmt.Errorf("delete comments: %w", res.Error)
		}
		result.Comments = res.RowsAffected

		res = tx.Where("project_id = ?", id).Delete(&models.Bookmark{})
		if res.Error != nil {
			return fmt.Errorf("delete bookmarks: %w", res.Error)
		}
		result.Bookmarks = res.RowsAffected

		res = tx.Where("project_id = ?", id).Delete(&models.Rating{})
		if res.Error != nil {
			return fmt.Errorf("delete ratings: %w", res.Error)
		}
		result.Ratings = res.RowsAffected

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectLike{}).Error; err != nil {
			return fmt.Errorf("delete project likes: %w", err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
			return fmt.Errorf("delete project tags: %w", err)
		}

		res = tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return fmt.Errorf("delete project: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Project{}).
		Scopes(r.filterScope(ctx, filter)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	err := r.db.WithContext(ctx).
		Scopes(r.filterScope(ctx, filter)).
		Order(sortClause(filter.Sort)).
		Limit(filter.Limit).
		Offset(offset(filter.Page, filter.Limit)).
		Preload("Tags", orderTags).
		Preload("Likes").
		Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	return projects, total, nil
}

// ToggleLike flips the caller's like on a project and adjusts likes_count in
// the same transaction, holding the project row lock throughout.
func (r *projectRepository) ToggleLike(ctx context.Context, projectID, userID string) (*ToggleResult, error) {
	result := &ToggleResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Clauses(forUpdate).Select("id").First(&project, "id = ?", projectID).Error; err != nil {
			return err
		}

		res := tx.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectLike{})
		if res.Error != nil {
			return fmt.Errorf("remove like: %w", res.Error)
		}

		expr := decrementExpr("likes_count")
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.ProjectLike{ProjectID: projectID, UserID: userID}).Error; err != nil {
				return fmt.Errorf("add like: %w", err)
			}
			expr = incrementExpr("likes_count")
			result.Liked = true
		}

		if err := tx.Model(&models.Project{}).Where("id = ?", projectID).
			UpdateColumn("likes_count", expr).Error; err != nil {
			return fmt.Errorf("update likes count: %w", err)
		}
		return tx.Model(&models.Project{}).Select("likes_count").
			Where("id = ?", projectID).Scan(&result.LikesCount).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetRatingSummary writes average and count in a single UPDATE
func (r *projectRepository) SetRatingSummary(ctx context.Context, id string, summary models.RatingSummary) error {
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rating_average": summary.Average,
			"rating_count":   summary.Count,
		}).Error
	if err != nil {
		return fmt.Errorf("set rating summary: %w", err)
	}
	return nil
}

func (r *projectRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count projects by author: %w", err)
	}
	return count, nil
}

func (r *projectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

// CountAuthors counts distinct identities that published at least one project
func (r *projectRepository) CountAuthors(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Distinct("author_id").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return count, nil
}

func (r *projectRepository) TopLiked(ctx context.Context, n int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Order(sortClause(SortPopular)).
		Limit(n).
		Preload("Tags", orderTags).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("top liked projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) TopRated(ctx context.Context, n int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("rating_count > 0").
		Order(sortClause(SortRated)).
		Limit(n).
		Preload("Tags", orderTags).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("top rated projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) filterScope(ctx context.Context, filter ProjectFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AuthorID != "" {
			db = db.Where("author_id = ?", filter.AuthorID)
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			db = db.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		if len(filter.Tags) > 0 {
			tagged := r.db.WithContext(ctx).Model(&models.ProjectTag{}).Select("project_id").Where("tag IN ?", filter.Tags)
			db = db.Where("id IN (?)", tagged)
		}
		return db
	}
}

func sortClause(sort ProjectSort) clause.OrderBy {
	columns := []clause.OrderByColumn{}
	switch sort {
	case SortPopular:
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: "likes_count"}, Desc: true})
	case SortRated:
		columns = append(columns,
			clause.OrderByColumn{Column: clause.Column{Name: "rating_average"}, Desc: true},
			clause.OrderByColumn{Column: clause.Column{Name: "rating_count"}, Desc: true},
		)
	}
	columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	return clause.OrderBy{Columns: columns}
}

func orderTags(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func tagRows(projectID string, tags []string) []models.ProjectTag {
	rows := make([]models.ProjectTag, 0, len(tags))
	for i, tag := range tags {
		rows = append(rows, models.ProjectTag{ProjectID: projectID, Tag: tag, Position: i})
	}
	return rows
}

// IsNotFound reports whether err means the requested row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

package service

import (
	"context"
	"fmt"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/models"
	"codeconnect/internal/microservices/http-api/repository"
	"codeconnect/internal/shared"

	"github.com/shopspring/decimal"
)

type RatingService interface {
	// Submit creates or overwrites the caller's rating; created reports which
	Submit(ctx context.Context, caller *shared.Identity, projectID string, value int) (rating *dto.RatingResponse, created bool, err error)
	// GetMine returns nil when the caller has not rated the project
	GetMine(ctx context.Context, caller *shared.Identity, projectID string) (*dto.UserRatingResponse, error)
	Distribution(ctx context.Context, projectID string) (*dto.RatingDistributionResponse, error)
	Delete(ctx context.Context, caller *shared.Identity, projectID string) error
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	projectRepo repository.ProjectRepository
	authorizer  *Authorizer
	recorder    EngagementRecorder
	cache       Cache
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	projectRepo repository.ProjectRepository,
	authorizer *Authorizer,
	recorder EngagementRecorder,
	cache Cache,
) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		projectRepo: projectRepo,
		authorizer:  authorizer,
		recorder:    recorderOrNoop(recorder),
		cache:       cacheOrNoop(cache),
	}
}

func (s *ratingService) Submit(ctx context.Context, caller *shared.Identity, projectID string, value int) (*dto.RatingResponse, bool, error) {
	if err := requireCaller(caller); err != nil {
		return nil, false, err
	}
	if value < models.MinRating || value > models.MaxRating {
		return nil, false, validationError(fmt.Sprintf("Rating must be between %d and %d", models.MinRating, models.MaxRating))
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, false, orNotFound(err, errProjectNotFound)
	}
	if !s.authorizer.CanRate(caller, project.Author.ID) {
		return nil, false, forbidden("You cannot rate your own project")
	}

	_, err = s.ratingRepo.GetByUserAndProject(ctx, caller.ID, projectID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, false, err
	}
	created := err != nil

	if err := s.ratingRepo.Upsert(ctx, &models.Rating{UserID: caller.ID, ProjectID: projectID, Value: value}); err != nil {
		return nil, false, err
	}
	if err := s.recompute(ctx, projectID); err != nil {
		return nil, false, err
	}

	stored, err := s.ratingRepo.GetByUserAndProject(ctx, caller.ID, projectID)
	if err != nil {
		return nil, false, err
	}
	action := ActionAdd
	if !created {
		action = ActionUpdate
	}
	s.recorder.RecordEngagement(KindRating, action)

	return dto.FromModelToRatingResponse(stored), created, nil
}

func (s *ratingService) GetMine(ctx context.Context, caller *shared.Identity, projectID string) (*dto.UserRatingResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	rating, err := s.ratingRepo.GetByUserAndProject(ctx, caller.ID, projectID)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.UserRatingResponse{Rating: rating.Value}, nil
}

// Distribution counts every rating of the project per star value
func (s *ratingService) Distribution(ctx context.Context, projectID string) (*dto.RatingDistributionResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}

	counts, err := s.ratingRepo.Distribution(ctx, projectID)
	if err != nil {
		return nil, err
	}

	dist := make(map[int]int64, models.MaxRating)
	for v := models.MinRating; v <= models.MaxRating; v++ {
		dist[v] = counts[v]
	}

	return &dto.RatingDistributionResponse{
		Average:      project.Rating.Average,
		Count:        project.Rating.Count,
		Distribution: dist,
	}, nil
}

func (s *ratingService) Delete(ctx context.Context, caller *shared.Identity, projectID string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	if err := s.ratingRepo.Delete(ctx, caller.ID, projectID); err != nil {
		return orNotFound(err, errRatingNotFound)
	}
	if err := s.recompute(ctx, projectID); err != nil {
		return err
	}
	s.recorder.RecordEngagement(KindRating, ActionRemove)
	return nil
}

// recompute rebuilds the project's summary from every stored rating rather
// than adjusting it incrementally. Concurrent writers each read the full set
// after their own write, so whichever summary lands last matches the rows.
func (s *ratingService) recompute(ctx context.Context, projectID string) error {
	values, err := s.ratingRepo.ValuesByProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.projectRepo.SetRatingSummary(ctx, projectID, computeRatingSummary(values)); err != nil {
		return err
	}
	s.cache.Delete(ctx, StatsCacheKey)
	return nil
}

// computeRatingSummary averages the values rounded half away from zero to one
// decimal. No values gives 0/0.
func computeRatingSummary(values []int) models.RatingSummary {
	if len(values) == 0 {
		return models.RatingSummary{}
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromInt(int64(v)))
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(values)))).Round(1).Float64()

	return models.RatingSummary{Average: avg, Count: len(values)}
}

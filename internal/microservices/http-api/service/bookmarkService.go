package service

import (
	"context"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/repository"
	"codeconnect/internal/shared"
)

type BookmarkService interface {
	List(ctx context.Context, caller *shared.Identity, query dto.PageQuery) (*dto.PaginatedProjectResponse, error)
	Toggle(ctx context.Context, caller *shared.Identity, projectID string) (*dto.BookmarkStatusResponse, error)
	Check(ctx context.Context, caller *shared.Identity, projectID string) (*dto.BookmarkStatusResponse, error)
}

type bookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	projectRepo  repository.ProjectRepository
	recorder     EngagementRecorder
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, projectRepo repository.ProjectRepository, recorder EngagementRecorder) BookmarkService {
	return &bookmarkService{
		bookmarkRepo: bookmarkRepo,
		projectRepo:  projectRepo,
		recorder:     recorderOrNoop(recorder),
	}
}

// List pages through the caller's bookmarked projects, most recent bookmark first
func (s *bookmarkService) List(ctx context.Context, caller *shared.Identity, query dto.PageQuery) (*dto.PaginatedProjectResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	page := query.Normalize()

	projects, total, err := s.bookmarkRepo.ListProjects(ctx, caller.ID, page.Page, page.Limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedProjectResponse{
		Data:       dto.FromModelsToProjectResponses(projects),
		Pagination: dto.NewPagination(page.Page, page.Limit, total),
	}, nil
}

func (s *bookmarkService) Toggle(ctx context.Context, caller *shared.Identity, projectID string) (*dto.BookmarkStatusResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errProjectNotFound
	}

	bookmarked, err := s.bookmarkRepo.Toggle(ctx, caller.ID, projectID)
	if err != nil {
		return nil, err
	}
	s.recorder.RecordEngagement(KindBookmark, toggleAction(bookmarked))

	return &dto.BookmarkStatusResponse{Bookmarked: bookmarked}, nil
}

func (s *bookmarkService) Check(ctx context.Context, caller *shared.Identity, projectID string) (*dto.BookmarkStatusResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	bookmarked, err := s.bookmarkRepo.Exists(ctx, caller.ID, projectID)
	if err != nil {
		return nil, err
	}
	return &dto.BookmarkStatusResponse{Bookmarked: bookmarked}, nil
}

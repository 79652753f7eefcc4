package service

import (
	"context"
	"strings"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/models"
	"codeconnect/internal/microservices/http-api/repository"
	"codeconnect/internal/shared"
)

// StatsCacheKey is where the platform stats are cached
const StatsCacheKey = "codeconnect:stats"

type ProjectService interface {
	List(ctx context.Context, query dto.ProjectListQuery) (*dto.PaginatedProjectResponse, error)
	// Get returns the project and counts the view
	Get(ctx context.Context, id string) (*dto.ProjectResponse, error)
	Create(ctx context.Context, caller *shared.Identity, req dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Update(ctx context.Context, caller *shared.Identity, id string, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, caller *shared.Identity, id string) (*dto.DeleteProjectResponse, error)
	ToggleLike(ctx context.Context, caller *shared.Identity, id string) (*dto.ToggleResponse, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	authorizer  *Authorizer
	recorder    EngagementRecorder
	cache       Cache
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	authorizer *Authorizer,
	recorder EngagementRecorder,
	cache Cache,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		authorizer:  authorizer,
		recorder:    recorderOrNoop(recorder),
		cache:       cacheOrNoop(cache),
	}
}

func (s *projectService) List(ctx context.Context, query dto.ProjectListQuery) (*dto.PaginatedProjectResponse, error) {
	page := query.PageQuery.Normalize()

	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		Search: strings.TrimSpace(query.Search),
		Tags:   query.TagList(),
		Sort:   parseSort(query.SortBy),
		Page:   page.Page,
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedProjectResponse{
		Data:       dto.FromModelsToProjectResponses(projects),
		Pagination: dto.NewPagination(page.Page, page.Limit, total),
	}, nil
}

func (s *projectService) Get(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	// the increment doubles as the existence check
	if err := s.projectRepo.IncrementViews(ctx, id); err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}
	resp := dto.FromModelToProjectResponse(project)
	return &resp, nil
}

func (s *projectService) Create(ctx context.Context, caller *shared.Identity, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.GithubRepo = strings.TrimSpace(req.GithubRepo)
	req.LiveDemo = strings.TrimSpace(req.LiveDemo)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	tags, err := NormalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       req.Title,
		DisplayName: req.DisplayName,
		Description: req.Description,
		GithubRepo:  req.GithubRepo,
		LiveDemo:    req.LiveDemo,
		Thumbnail:   strings.TrimSpace(req.Thumbnail),
		Author:      snapshotOf(caller),
	}
	for i, tag := range tags {
		project.Tags = append(project.Tags, models.ProjectTag{Tag: tag, Position: i})
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, StatsCacheKey)
	s.recorder.RecordEngagement(KindProject, ActionAdd)

	resp := dto.FromModelToProjectResponse(project)
	return &resp, nil
}

func (s *projectService) Update(ctx context.Context, caller *shared.Identity, id string, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}
	if !s.authorizer.CanModifyProject(caller, project.Author.ID) {
		return nil, forbidden("Not authorized to update this project")
	}

	trimPtr(req.Title, req.Description, req.DisplayName, req.GithubRepo, req.LiveDemo, req.Thumbnail)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var columns []string
	// title and description cannot be blanked
	if req.Title != nil && *req.Title != "" {
		project.Title = *req.Title
		columns = append(columns, "title")
	}
	if req.Description != nil && *req.Description != "" {
		project.Description = *req.Description
		columns = append(columns, "description")
	}
	if req.DisplayName != nil {
		project.DisplayName = *req.DisplayName
		columns = append(columns, "display_name")
	}
	if req.GithubRepo != nil {
		project.GithubRepo = *req.GithubRepo
		columns = append(columns, "github_repo")
	}
	if req.LiveDemo != nil {
		project.LiveDemo = *req.LiveDemo
		columns = append(columns, "live_demo")
	}
	if req.Thumbnail != nil {
		project.Thumbnail = *req.Thumbnail
		columns = append(columns, "thumbnail")
	}

	var tags []string
	if req.Tags != nil {
		if tags, err = NormalizeTags(req.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Update(ctx, project, columns, tags); err != nil {
		return nil, err
	}

	updated, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}
	resp := dto.FromModelToProjectResponse(updated)
	return &resp, nil
}

func (s *projectService) Delete(ctx context.Context, caller *shared.Identity, id string) (*dto.DeleteProjectResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}
	if !s.authorizer.CanModifyProject(caller, project.Author.ID) {
		return nil, forbidden("Not authorized to delete this project")
	}

	result, err := s.projectRepo.DeleteCascade(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}
	s.cache.Delete(ctx, StatsCacheKey)
	s.recorder.RecordEngagement(KindProject, ActionRemove)

	return &dto.DeleteProjectResponse{
		DeletedComments:  result.Comments,
		DeletedBookmarks: result.Bookmarks,
		DeletedRatings:   result.Ratings,
	}, nil
}

func (s *projectService) ToggleLike(ctx context.Context, caller *shared.Identity, id string) (*dto.ToggleResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	result, err := s.projectRepo.ToggleLike(ctx, id, caller.ID)
	if err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}
	s.recorder.RecordEngagement(KindProjectLike, toggleAction(result.Liked))
	s.cache.Delete(ctx, StatsCacheKey)

	return &dto.ToggleResponse{Liked: result.Liked, LikesCount: result.LikesCount}, nil
}

func parseSort(sortBy string) repository.ProjectSort {
	switch repository.ProjectSort(sortBy) {
	case repository.SortPopular:
		return repository.SortPopular
	case repository.SortRated:
		return repository.SortRated
	default:
		return repository.SortRecent
	}
}

// snapshotOf copies the caller's identity onto content they author
func snapshotOf(caller *shared.Identity) models.AuthorSnapshot {
	name := caller.DisplayName
	if name == "" {
		name, _, _ = strings.Cut(caller.Email, "@")
	}
	return models.AuthorSnapshot{
		ID:    caller.ID,
		Name:  name,
		Email: caller.Email,
		Photo: caller.PhotoURL,
	}
}

func trimPtr(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

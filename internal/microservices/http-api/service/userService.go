package service

import (
	"context"
	"strings"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/repository"
	"codeconnect/internal/shared"

	"golang.org/x/sync/errgroup"
)

const topProjects = 5

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, caller *shared.Identity, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListProjects(ctx context.Context, userID string, query dto.PageQuery) (*dto.PaginatedProjectResponse, error)
	List(ctx context.Context, query dto.UserListQuery) (*dto.PaginatedUserResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type userService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	cache       Cache
}

func NewUserService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, cache Cache) UserService {
	return &userService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		cache:       cacheOrNoop(cache),
	}
}

// GetProfile returns the profile with the number of projects the user published
func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, errUserNotFound)
	}

	count, err := s.projectRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromModelToUserResponse(user)
	resp.ProjectCount = &count
	return resp, nil
}

// UpdateProfile writes only the allow-listed fields present in req
func (s *userService) UpdateProfile(ctx context.Context, caller *shared.Identity, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	trimPtr(req.DisplayName, req.Bio, req.Location, req.Website, req.Github, req.Twitter, req.Linkedin, req.PhotoURL)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.DisplayName != nil && *req.DisplayName == "" {
		return nil, validationError("displayName cannot be empty")
	}

	user, err := s.userRepo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, orNotFound(err, errUserNotFound)
	}

	var columns []string
	set := func(dst *string, src *string, column string) {
		if src != nil {
			*dst = *src
			columns = append(columns, column)
		}
	}
	set(&user.DisplayName, req.DisplayName, "display_name")
	set(&user.Bio, req.Bio, "bio")
	set(&user.Location, req.Location, "location")
	set(&user.Website, req.Website, "website")
	set(&user.Github, req.Github, "github")
	set(&user.Twitter, req.Twitter, "twitter")
	set(&user.Linkedin, req.Linkedin, "linkedin")
	set(&user.PhotoURL, req.PhotoURL, "photo_url")
	if req.Skills != nil {
		user.Skills = cleanSkills(req.Skills)
		columns = append(columns, "skills")
	}

	if err := s.userRepo.UpdateColumns(ctx, user, columns); err != nil {
		return nil, orNotFound(err, errUserNotFound)
	}
	return dto.FromModelToUserResponse(user), nil
}

// ListProjects pages through one user's projects, newest first
func (s *userService) ListProjects(ctx context.Context, userID string, query dto.PageQuery) (*dto.PaginatedProjectResponse, error) {
	page := query.Normalize()

	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		AuthorID: userID,
		Sort:     repository.SortRecent,
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedProjectResponse{
		Data:       dto.FromModelsToProjectResponses(projects),
		Pagination: dto.NewPagination(page.Page, page.Limit, total),
	}, nil
}

func (s *userService) List(ctx context.Context, query dto.UserListQuery) (*dto.PaginatedUserResponse, error) {
	page := query.PageQuery.Normalize()

	users, total, err := s.userRepo.List(ctx, strings.TrimSpace(query.Search), page.Page, page.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, *dto.FromModelToUserResponse(&users[i]))
	}
	return &dto.PaginatedUserResponse{
		Data:       data,
		Pagination: dto.NewPagination(page.Page, page.Limit, total),
	}, nil
}

// Stats runs its four queries concurrently and caches the result
func (s *userService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var cached dto.StatsResponse
	if s.cache.GetJSON(ctx, StatsCacheKey, &cached) {
		return &cached, nil
	}

	var stats dto.StatsResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.projectRepo.Count(gctx)
		stats.TotalProjects = n
		return err
	})
	g.Go(func() error {
		n, err := s.projectRepo.CountAuthors(gctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		projects, err := s.projectRepo.TopLiked(gctx, topProjects)
		stats.MostLikedProjects = dto.FromModelsToProjectResponses(projects)
		return err
	})
	g.Go(func() error {
		projects, err := s.projectRepo.TopRated(gctx, topProjects)
		stats.HighestRatedProjects = dto.FromModelsToProjectResponses(projects)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, StatsCacheKey, &stats)
	return &stats, nil
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}

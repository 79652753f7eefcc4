package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/models"
	"codeconnect/internal/microservices/http-api/repository"
	"codeconnect/internal/shared"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminEmail = "admin@codeconnect.dev"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// recordingRecorder keeps every engagement event
type recordingRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingRecorder) RecordEngagement(kind, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+":"+action)
}

func (r *recordingRecorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// memoryCache is an in-process Cache
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
	hits  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.items[key]
	if !ok {
		return false
	}
	c.hits++
	return json.Unmarshal(raw, dest) == nil
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
}

// testEnv wires every service over one SQLite database
type testEnv struct {
	ctx      context.Context
	db       *gorm.DB
	recorder *recordingRecorder
	cache    *memoryCache

	projectRepo  repository.ProjectRepository
	commentRepo  repository.CommentRepository
	ratingRepo   repository.RatingRepository
	bookmarkRepo repository.BookmarkRepository
	userRepo     repository.UserRepository

	projects  ProjectService
	comments  CommentService
	ratings   RatingService
	bookmarks BookmarkService
	users     UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		ctx:          context.Background(),
		db:           db,
		recorder:     &recordingRecorder{},
		cache:        newMemoryCache(),
		projectRepo:  repository.NewProjectRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		ratingRepo:   repository.NewRatingRepository(db),
		bookmarkRepo: repository.NewBookmarkRepository(db),
		userRepo:     repository.NewUserRepository(db),
	}
	authorizer := NewAuthorizer(testAdminEmail)

	env.projects = NewProjectService(env.projectRepo, authorizer, env.recorder, env.cache)
	env.comments = NewCommentService(env.commentRepo, authorizer, env.recorder)
	env.ratings = NewRatingService(env.ratingRepo, env.projectRepo, authorizer, env.recorder, env.cache)
	env.bookmarks = NewBookmarkService(env.bookmarkRepo, env.projectRepo, env.recorder)
	env.users = NewUserService(env.userRepo, env.projectRepo, env.cache)
	return env
}

func newIdentity() *shared.Identity {
	return &shared.Identity{
		ID:          gofakeit.UUID(),
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.FirstName(),
		PhotoURL:    gofakeit.URL(),
	}
}

func (e *testEnv) createProject(t *testing.T, owner *shared.Identity, tags ...string) *dto.ProjectResponse {
	t.Helper()
	p, err := e.projects.Create(e.ctx, owner, dto.CreateProjectRequest{
		Title:       gofakeit.AppName(),
		Description: gofakeit.Sentence(10),
		Tags:        tags,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) reload(t *testing.T, id string) *models.Project {
	t.Helper()
	p, err := e.projectRepo.GetByID(e.ctx, id)
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

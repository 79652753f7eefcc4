package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/middleware"
	"codeconnect/internal/microservices/http-api/service"
	"codeconnect/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*shared.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Identity), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, caller *shared.Identity) (*dto.UserResponse, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

// MockProjectService mocks the ProjectService interface
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) List(ctx context.Context, query dto.ProjectListQuery) (*dto.PaginatedProjectResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedProjectResponse), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, caller *shared.Identity, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, caller *shared.Identity, id string, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, caller *shared.Identity, id string) (*dto.DeleteProjectResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DeleteProjectResponse), args.Error(1)
}

func (m *MockProjectService) ToggleLike(ctx context.Context, caller *shared.Identity, id string) (*dto.ToggleResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ToggleResponse), args.Error(1)
}

// MockRatingService mocks the RatingService interface
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Submit(ctx context.Context, caller *shared.Identity, projectID string, value int) (*dto.RatingResponse, bool, error) {
	args := m.Called(ctx, caller, projectID, value)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*dto.RatingResponse), args.Bool(1), args.Error(2)
}

func (m *MockRatingService) GetMine(ctx context.Context, caller *shared.Identity, projectID string) (*dto.UserRatingResponse, error) {
	args := m.Called(ctx, caller, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserRatingResponse), args.Error(1)
}

func (m *MockRatingService) Distribution(ctx context.Context, projectID string) (*dto.RatingDistributionResponse, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingDistributionResponse), args.Error(1)
}

func (m *MockRatingService) Delete(ctx context.Context, caller *shared.Identity, projectID string) error {
	args := m.Called(ctx, caller, projectID)
	return args.Error(0)
}

// MockCommentService mocks the CommentService interface
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) ListByProject(ctx context.Context, projectID string) ([]dto.CommentResponse, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, caller *shared.Identity, projectID string, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	args := m.Called(ctx, caller, projectID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, caller *shared.Identity, commentID string) error {
	args := m.Called(ctx, caller, commentID)
	return args.Error(0)
}

func (m *MockCommentService) ToggleLike(ctx context.Context, caller *shared.Identity, commentID string) (*dto.ToggleResponse, error) {
	args := m.Called(ctx, caller, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ToggleResponse), args.Error(1)
}

// MockBookmarkService mocks the BookmarkService interface
type MockBookmarkService struct {
	mock.Mock
}

func (m *MockBookmarkService) List(ctx context.Context, caller *shared.Identity, query dto.PageQuery) (*dto.PaginatedProjectResponse, error) {
	args := m.Called(ctx, caller, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedProjectResponse), args.Error(1)
}

func (m *MockBookmarkService) Toggle(ctx context.Context, caller *shared.Identity, projectID string) (*dto.BookmarkStatusResponse, error) {
	args := m.Called(ctx, caller, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookmarkStatusResponse), args.Error(1)
}

func (m *MockBookmarkService) Check(ctx context.Context, caller *shared.Identity, projectID string) (*dto.BookmarkStatusResponse, error) {
	args := m.Called(ctx, caller, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookmarkStatusResponse), args.Error(1)
}

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, caller *shared.Identity, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) ListProjects(ctx context.Context, userID string, query dto.PageQuery) (*dto.PaginatedProjectResponse, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedProjectResponse), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, query dto.UserListQuery) (*dto.PaginatedUserResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedUserResponse), args.Error(1)
}

func (m *MockUserService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StatsResponse), args.Error(1)
}

var registerOnce sync.Once

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := service.RegisterValidations(v); err != nil {
				panic(err)
			}
		}
	})
	return gin.New()
}

var (
	alice = &shared.Identity{ID: "uid-alice", Email: "alice@example.com", DisplayName: "Alice"}
	bob   = &shared.Identity{ID: "uid-bob", Email: "bob@example.com", DisplayName: "Bob"}
)

// fakeAuth stands in for AuthMiddleware: it authenticates as identity, or
// rejects with 401 when identity is nil.
func fakeAuth(identity *shared.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "data": nil, "message": "No token provided"})
			return
		}
		c.Set(middleware.IdentityKey, identity)
		c.Set(middleware.UserIDKey, identity.ID)
		c.Next()
	}
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *dto.Pagination `json:"pagination"`
	Count      *int            `json:"count"`
}

func perform(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, env envelope, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func svcErr(kind error, message string) error {
	return &service.Error{Kind: kind, Message: message}
}

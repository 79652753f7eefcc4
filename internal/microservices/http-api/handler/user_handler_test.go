package handler

import (
	"net/http"
	"strings"
	"testing"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/service"
	"codeconnect/internal/shared"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserRouter(identity *shared.Identity) (*gin.Engine, *MockUserService) {
	users := new(MockUserService)
	router := setupRouter()
	NewUserHandler(users).RegisterRoutes(router.Group("/api"), fakeAuth(identity))
	return router, users
}

func TestUserHandler_Stats(t *testing.T) {
	router, users := newUserRouter(nil)
	users.On("Stats", mock.Anything).Return(&dto.StatsResponse{
		TotalProjects:        4,
		TotalUsers:           2,
		MostLikedProjects:    []dto.ProjectResponse{},
		HighestRatedProjects: []dto.ProjectResponse{},
	}, nil)

	w := perform(router, http.MethodGet, "/api/users/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var stats dto.StatsResponse
	decodeData(t, decode(t, w), &stats)
	assert.Equal(t, int64(4), stats.TotalProjects)
	assert.Equal(t, int64(2), stats.TotalUsers)
	users.AssertNotCalled(t, "GetProfile", mock.Anything, "stats")
}

func TestUserHandler_List(t *testing.T) {
	router, users := newUserRouter(nil)
	query := dto.UserListQuery{PageQuery: dto.PageQuery{Limit: 20}, Search: "go dev"}
	users.On("List", mock.Anything, query).Return(&dto.PaginatedUserResponse{
		Data:       []dto.UserResponse{{UID: "uid-alice", DisplayName: "Alice"}},
		Pagination: dto.NewPagination(1, 20, 1),
	}, nil)

	w := perform(router, http.MethodGet, "/api/users?search=go+dev&limit=20", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.TotalItems)
	users.AssertExpectations(t)
}

func TestUserHandler_GetProfile(t *testing.T) {
	router, users := newUserRouter(nil)
	count := int64(2)
	users.On("GetProfile", mock.Anything, "uid-alice").
		Return(&dto.UserResponse{UID: "uid-alice", Skills: []string{}, ProjectCount: &count}, nil)
	users.On("GetProfile", mock.Anything, "nobody").Return(nil, svcErr(service.ErrNotFound, "User not found"))

	w := perform(router, http.MethodGet, "/api/users/uid-alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var profile dto.UserResponse
	decodeData(t, decode(t, w), &profile)
	require.NotNil(t, profile.ProjectCount)
	assert.Equal(t, int64(2), *profile.ProjectCount)

	w = perform(router, http.MethodGet, "/api/users/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w).Message)
}

func TestUserHandler_ListProjects(t *testing.T) {
	router, users := newUserRouter(nil)
	users.On("ListProjects", mock.Anything, "uid-alice", dto.PageQuery{Page: 2}).Return(&dto.PaginatedProjectResponse{
		Data:       []dto.ProjectResponse{},
		Pagination: dto.NewPagination(2, 12, 12),
	}, nil)

	w := perform(router, http.MethodGet, "/api/users/uid-alice/projects?page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Pagination)
	assert.False(t, env.Pagination.HasMore)
	assert.Equal(t, "[]", string(env.Data))
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	router, users := newUserRouter(alice)

	bio := gofakeit.Sentence(8)
	req := dto.UpdateProfileRequest{Bio: &bio, Skills: []string{"go", "sql"}}
	users.On("UpdateProfile", mock.Anything, alice, req).
		Return(&dto.UserResponse{UID: alice.ID, Bio: bio, Skills: []string{"go", "sql"}}, nil)

	w := perform(router, http.MethodPut, "/api/users/profile", req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Profile updated successfully", env.Message)
	var profile dto.UserResponse
	decodeData(t, env, &profile)
	assert.Equal(t, bio, profile.Bio)
	users.AssertExpectations(t)
}

func TestUserHandler_UpdateProfile_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"display name too long", map[string]string{"displayName": strings.Repeat("a", 16)}, "displayName must be at most 15 characters"},
		{"bio too long", map[string]string{"bio": strings.Repeat("b", 501)}, "bio must be at most 500 characters"},
		{"photo not a url", map[string]string{"photoURL": "avatar.png"}, "photoURL must be an http(s) URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, users := newUserRouter(alice)

			w := perform(router, http.MethodPut, "/api/users/profile", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decode(t, w).Message)
			users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUserHandler_UpdateProfile_Unauthenticated(t *testing.T) {
	router, users := newUserRouter(nil)

	w := perform(router, http.MethodPut, "/api/users/profile", map[string]string{"bio": "hi"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, users.Calls)
}

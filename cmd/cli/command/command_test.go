package command

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeconnect/cmd/cli/command/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectJSON = `{"id":"p1","title":"Terminal Todo","description":"A todo list","tags":["go","cli"],
"authorName":"Alice","likesCount":3,"viewsCount":10,"commentsCount":1,"rating":{"average":4.5,"count":2}}`

func newAPI(t *testing.T) (*httptest.Server, func() *http.Request) {
	t.Helper()
	var last *http.Request
	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects", func(w http.ResponseWriter, r *http.Request) {
		last = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[` + projectJSON + `],
"pagination":{"currentPage":1,"totalPages":1,"totalItems":1,"hasMore":false}}`))
	})
	mux.HandleFunc("/api/projects/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":` + projectJSON + `}`))
	})
	mux.HandleFunc("/api/projects/p1/ratings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"average":4.5,"count":2,"distribution":{"1":0,"2":0,"3":0,"4":1,"5":1}}}`))
	})
	mux.HandleFunc("/api/projects/missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"data":null,"message":"Project not found"}`))
	})
	mux.HandleFunc("/api/users/stats", func(w http.ResponseWriter, r *http.Request) {
		last = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"totalProjects":7,"totalUsers":3,
"mostLikedProjects":[` + projectJSON + `],"highestRatedProjects":[` + projectJSON + `]}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, func() *http.Request { return last }
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProjectsList(t *testing.T) {
	server, last := newAPI(t)

	out, err := run(t, "--api-url", server.URL, "projects", "list", "--sort", "popular", "--tags", "go", "--limit", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "Terminal Todo")
	assert.Contains(t, out, "likes:3")
	assert.Contains(t, out, "rating:4.5 (2)")
	assert.Contains(t, out, "Page 1 of 1 (1 projects)")

	query := last().URL.Query()
	assert.Equal(t, "popular", query.Get("sortBy"))
	assert.Equal(t, "go", query.Get("tags"))
	assert.Equal(t, "5", query.Get("limit"))
	assert.Equal(t, "1", query.Get("page"))
}

func TestProjectsGet(t *testing.T) {
	server, _ := newAPI(t)

	out, err := run(t, "--api-url", server.URL, "projects", "get", "p1")
	require.NoError(t, err)

	assert.Contains(t, out, "Author:    Alice")
	assert.Contains(t, out, "Rating:    4.5 from 2 ratings")
	assert.Contains(t, out, "  5★ 1")
	assert.Contains(t, out, "  1★ 0")
}

func TestProjectsGet_NotFound(t *testing.T) {
	server, _ := newAPI(t)

	_, err := run(t, "--api-url", server.URL, "projects", "get", "missing")
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Project not found", apiErr.Message)
}

func TestStats(t *testing.T) {
	server, last := newAPI(t)

	out, err := run(t, "--api-url", server.URL, "--token", "tok", "stats")
	require.NoError(t, err)

	assert.Contains(t, out, "Projects: 7")
	assert.Contains(t, out, "Authors:  3")
	assert.Contains(t, out, "1. Terminal Todo (3 likes)")
	assert.Contains(t, out, "1. Terminal Todo (4.5 from 2)")
	assert.Equal(t, "Bearer tok", last().Header.Get("Authorization"))
}

func TestProjectsGet_RequiresID(t *testing.T) {
	_, err := run(t, "projects", "get")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ééé…", truncate("éééééé", 4))
}

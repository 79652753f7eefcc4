package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Root(t *testing.T) {
	router := setupRouter()
	NewSystemHandler(nil).RegisterRoutes(router)

	w := perform(router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success   bool              `json:"success"`
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, APIVersion, body.Version)
	assert.Equal(t, "/api/projects", body.Endpoints["projects"])
	assert.Len(t, body.Endpoints, 6)
}

func TestSystemHandler_Health(t *testing.T) {
	var pingErr error
	router := setupRouter()
	NewSystemHandler(func(context.Context) error { return pingErr }).RegisterRoutes(router)

	w := perform(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","message":"CodeConnect API is running"}`, w.Body.String())

	pingErr = errors.New("dial tcp: connection refused")
	w = perform(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestSystemHandler_NotFound(t *testing.T) {
	router := setupRouter()
	NewSystemHandler(nil).RegisterRoutes(router)

	w := perform(router, http.MethodGet, "/api/nowhere", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEngagement(t *testing.T) {
	m := New()
	m.RecordEngagement("project_like", "add")
	m.RecordEngagement("project_like", "add")
	m.RecordEngagement("project_like", "remove")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.engagements.WithLabelValues("project_like", "add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.engagements.WithLabelValues("project_like", "remove")))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/projects/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/projects/a", "/api/projects/b", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/projects/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordEngagement("comment", "add")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `codeconnect_engagements_total{action="add",kind="comment"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.RecordEngagement("rating", "add") })

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

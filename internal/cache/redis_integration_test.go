//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	c, err := NewRedisCache(ctx, Options{URL: endpoint, TTL: time.Second}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, c)
	t.Cleanup(func() { _ = c.Close() })

	type stats struct {
		TotalProjects int64 `json:"totalProjects"`
	}

	var got stats
	assert.False(t, c.GetJSON(ctx, "codeconnect:stats", &got))

	c.SetJSON(ctx, "codeconnect:stats", stats{TotalProjects: 7})
	require.True(t, c.GetJSON(ctx, "codeconnect:stats", &got))
	assert.Equal(t, int64(7), got.TotalProjects)

	c.Delete(ctx, "codeconnect:stats")
	assert.False(t, c.GetJSON(ctx, "codeconnect:stats", &got))

	// entries expire after the TTL
	c.SetJSON(ctx, "codeconnect:stats", stats{TotalProjects: 1})
	assert.Eventually(t, func() bool {
		var s stats
		return !c.GetJSON(ctx, "codeconnect:stats", &s)
	}, 5*time.Second, 100*time.Millisecond)
}

//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"codeconnect/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestConnect_AppliesMigrations(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("codeconnect_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &config.Config{
		DatabaseURL:       dsn,
		DBMaxOpenConns:    5,
		DBMaxIdleConns:    1,
		DBConnMaxLifetime: time.Minute,
		MigrateOnStart:    true,
		LogLevel:          "info",
	}

	db, err := Connect(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, table := range []string{"users", "projects", "project_tags", "project_likes", "comments", "comment_likes", "ratings", "bookmarks"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// Connecting again is a no-op migration
	db2, err := Connect(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	_ = Close(db2)

	m, err := NewMigrator(dsn, zap.NewNop())
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down(1))
	assert.False(t, db.Migrator().HasTable("ratings"))
	require.NoError(t, m.Up())
	assert.True(t, db.Migrator().HasTable("ratings"))
}

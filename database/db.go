package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"codeconnect/internal/config"
	"codeconnect/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL pool through pgx, applies migrations when
// configured to, and returns a gorm handle over it.
func Connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	sqlDB, err := openSQL(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		// close the handle if ping fails to avoid a leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.MigrateOnStart {
		m, err := NewMigrator(cfg.DatabaseURL, log)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		err = m.Up()
		m.Close()
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	db, err := Open(sqlDB, log, logger.GormLevel(cfg.LogLevel))
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Info("Connected to the database successfully",
		zap.Int("max_open_conns", cfg.DBMaxOpenConns),
		zap.Bool("migrated", cfg.MigrateOnStart),
	)
	return db, nil
}

// Open wraps an existing *sql.DB in gorm with the zap-backed gorm logger.
func Open(sqlDB *sql.DB, log *zap.Logger, level gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.NewGormLogger(log, level, 200*time.Millisecond),
		TranslateError:       true,
		DisableAutomaticPing: true,
		NowFunc:              func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return db, nil
}

// Ping checks the pool behind a gorm handle
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool behind a gorm handle
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openSQL(databaseURL string) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	return stdlib.OpenDB(*connConfig), nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeconnect/database"
	"codeconnect/internal/cache"
	"codeconnect/internal/config"
	"codeconnect/internal/logger"
	"codeconnect/internal/metrics"
	"codeconnect/internal/microservices/http-api/service"
	"codeconnect/internal/middleware/auth"
	"codeconnect/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zapLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:       cfg.OTelEnabled,
		Endpoint:      cfg.OTelEndpoint,
		SamplingRatio: cfg.OTelSamplingRatio,
		ServiceName:   serviceName,
		Version:       "2.0.0",
	}, zapLogger)
	if err != nil {
		return err
	}
	defer tracer.Shutdown(context.Background())
	if err := tracer.InstrumentGorm(db); err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(ctx, cache.Options{
		URL:      cfg.RedisURL,
		Password: cfg.RedisPassword,
		TTL:      cfg.CacheDuration(),
	}, zapLogger)
	if err != nil {
		// stats are served uncached rather than refusing to start
		zapLogger.Warn("Redis unavailable, caching disabled", zap.Error(err))
	}
	defer redisCache.Close()

	var statsCache service.Cache
	if redisCache != nil {
		statsCache = redisCache
		zapLogger.Info("Redis cache enabled", zap.Duration("ttl", cfg.CacheDuration()))
	}

	var m *metrics.Metrics
	var recorder service.EngagementRecorder
	if cfg.PrometheusEnabled {
		m = metrics.New()
		recorder = m
	}

	verifier := auth.NewVerifier(cfg.FirebaseProjectID, cfg.JWTSecret)
	if cfg.FirebaseProjectID == "" {
		zapLogger.Warn("FIREBASE_PROJECT_ID not set, accepting HS256 development tokens")
	}

	svc := newServices(db, verifier, cfg.AdminEmail, statsCache, recorder)
	router, err := newRouter(routerOptions{
		cfg:     cfg,
		log:     zapLogger,
		metrics: m,
		tracing: tracer.Enabled(),
		ping:    pinger(db),
	}, svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("Server running", zap.String("addr", srv.Addr), zap.String("env", cfg.GoEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zapLogger.Info("Server stopped")
	return nil
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}

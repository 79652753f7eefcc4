package main

import (
	"context"
	"fmt"

	"codeconnect/internal/config"
	"codeconnect/internal/logger"
	"codeconnect/internal/metrics"
	"codeconnect/internal/microservices/http-api/handler"
	"codeconnect/internal/microservices/http-api/middleware"
	"codeconnect/internal/microservices/http-api/repository"
	"codeconnect/internal/microservices/http-api/service"
	"codeconnect/internal/middleware/auth"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "codeconnect-api"

type services struct {
	auth      service.AuthService
	projects  service.ProjectService
	ratings   service.RatingService
	comments  service.CommentService
	bookmarks service.BookmarkService
	users     service.UserService
}

// newServices builds repositories and services over one database handle.
// cache and recorder may be nil.
func newServices(db *gorm.DB, verifier auth.TokenVerifier, adminEmail string, cache service.Cache, recorder service.EngagementRecorder) services {
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	userRepo := repository.NewUserRepository(db)

	authorizer := service.NewAuthorizer(adminEmail)

	return services{
		auth:      service.NewAuthService(verifier, userRepo, authorizer),
		projects:  service.NewProjectService(projectRepo, authorizer, recorder, cache),
		ratings:   service.NewRatingService(ratingRepo, projectRepo, authorizer, recorder, cache),
		comments:  service.NewCommentService(commentRepo, authorizer, recorder),
		bookmarks: service.NewBookmarkService(bookmarkRepo, projectRepo, recorder),
		users:     service.NewUserService(userRepo, projectRepo, cache),
	}
}

type routerOptions struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	tracing bool
	ping    func(ctx context.Context) error
}

// newRouter assembles the middleware chain and every route
func newRouter(opts routerOptions, svc services) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := service.RegisterValidations(v); err != nil {
			return nil, fmt.Errorf("register validations: %w", err)
		}
	}

	cfg := opts.cfg
	router := gin.New()
	router.Use(
		logger.Recovery(opts.log),
		middleware.RequestID(),
		logger.GinMiddleware(opts.log),
	)
	if opts.tracing {
		router.Use(middleware.Tracing(serviceName), middleware.SpanAttributes())
	}
	router.Use(
		opts.metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)),
		middleware.BodyLimit(cfg.MaxBodyBytes),
		middleware.Timeout(cfg.RequestTimeout),
	)

	handler.NewSystemHandler(opts.ping).RegisterRoutes(router)
	if opts.metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.metrics.Handler()))
	}

	requireAuth := middleware.AuthMiddleware(svc.auth)
	api := router.Group("/api")
	handler.NewAuthHandler(svc.auth).RegisterRoutes(api, requireAuth)
	handler.NewProjectHandler(svc.projects, svc.ratings).RegisterRoutes(api, requireAuth)
	handler.NewCommentHandler(svc.comments).RegisterRoutes(api, requireAuth)
	handler.NewBookmarkHandler(svc.bookmarks).RegisterRoutes(api, requireAuth)
	handler.NewUserHandler(svc.users).RegisterRoutes(api, requireAuth)

	return router, nil
}

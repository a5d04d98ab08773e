package routes

import (
	"context"
	"net/http"

	"bootcamp-directory/internal/config"
	"bootcamp-directory/internal/delivery/http/handler"
	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	domainCourse "bootcamp-directory/internal/domain/course"
	"bootcamp-directory/internal/domain/events"
	domainReview "bootcamp-directory/internal/domain/review"
	domainUser "bootcamp-directory/internal/domain/user"
	"bootcamp-directory/internal/logger"
	"bootcamp-directory/internal/metrics"
	"bootcamp-directory/internal/middleware"
	"bootcamp-directory/internal/usecase/auth"
	bootcampUC "bootcamp-directory/internal/usecase/bootcamp"
	courseUC "bootcamp-directory/internal/usecase/course"
	reviewUC "bootcamp-directory/internal/usecase/review"
	userUC "bootcamp-directory/internal/usecase/user"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HealthChecker interface {
	Health(ctx context.Context) error
}

// Dependencies are the adapters main connects before routing. Registry may
// be nil; PhotoDir is served under /uploads when set.
type Dependencies struct {
	Health    HealthChecker
	Users     domainUser.Repository
	Bootcamps domainBootcamp.Repository
	Courses   domainCourse.Repository
	Reviews   domainReview.Repository
	Mailer    auth.Mailer
	Registry  auth.RevocationRegistry
	Geocoder  bootcampUC.Geocoder
	Files     bootcampUC.FileStore
	Publisher events.Publisher
	PhotoDir  string
}

// SetupRoutes wires services and handlers. Background work started here
// stops when ctx is cancelled.
func SetupRoutes(ctx context.Context, cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Init()
	limiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	go limiter.StartCleanup(ctx)

	router := gin.New()

	// Add middleware in order: recovery, request ID, logging, metrics, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.HTTPMetricsMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Upload.MaxBytes + 1<<20))
	router.Use(limiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		if err := deps.Health.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})
	router.GET("/metrics", metrics.Handler())

	if deps.PhotoDir != "" {
		router.Static("/uploads", deps.PhotoDir)
	}

	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry)

	authService := auth.NewService(deps.Users, tokens, deps.Mailer, deps.Registry, cfg)
	authHandler := handler.NewAuthHandler(authService, cfg)

	userService := userUC.NewService(deps.Users)
	userHandler := handler.NewUserHandler(userService)

	bootcampService := bootcampUC.NewService(deps.Bootcamps, deps.Courses, deps.Reviews, deps.Geocoder, deps.Files, deps.Publisher, cfg)
	bootcampHandler := handler.NewBootcampHandler(bootcampService)

	courseService := courseUC.NewService(deps.Courses, deps.Bootcamps, deps.Publisher)
	courseHandler := handler.NewCourseHandler(courseService)

	reviewService := reviewUC.NewService(deps.Reviews, deps.Bootcamps, deps.Publisher)
	reviewHandler := handler.NewReviewHandler(reviewService)

	v1 := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		bootcampHandler.RegisterRoutes(v1)
		courseHandler.RegisterRoutes(v1)
		reviewHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.Protect(authService))
		{
			authHandler.RegisterProtectedRoutes(protected)

			members := protected.Group("")
			members.Use(middleware.Authorize(domainUser.RoleStandard, domainUser.RoleAdmin))
			{
				bootcampHandler.RegisterProtectedRoutes(members)
				courseHandler.RegisterProtectedRoutes(members)
				reviewHandler.RegisterProtectedRoutes(members)
			}

			admin := protected.Group("")
			admin.Use(middleware.Authorize(domainUser.RoleAdmin))
			{
				userHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bootcamp-directory/internal/config"
	"bootcamp-directory/internal/infrastructure/database/mongodb"
	"bootcamp-directory/internal/infrastructure/events"
	"bootcamp-directory/internal/infrastructure/geocoder"
	"bootcamp-directory/internal/infrastructure/mail"
	"bootcamp-directory/internal/infrastructure/revocation"
	"bootcamp-directory/internal/infrastructure/storage"
	"bootcamp-directory/internal/logger"
	"bootcamp-directory/internal/routes"
	"bootcamp-directory/internal/usecase/auth"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", cfg.Server.Environment),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mongodb.NewDB(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}

	deps := &routes.Dependencies{
		Health:    db,
		Users:     mongodb.NewUserRepository(db),
		Bootcamps: mongodb.NewBootcampRepository(db),
		Courses:   mongodb.NewCourseRepository(db),
		Reviews:   mongodb.NewReviewRepository(db),
		Geocoder:  geocoder.NewClient(&cfg.Geocoder),
	}

	if cfg.SMTP.Host != "" {
		deps.Mailer = mail.NewSMTPMailer(&cfg.SMTP)
	} else {
		deps.Mailer = mail.LogMailer{}
	}

	registry, closeRegistry := revocationRegistry(ctx, cfg)
	defer closeRegistry()
	deps.Registry = registry

	switch cfg.Upload.Backend {
	case "s3":
		store, err := storage.NewS3Store(ctx, &cfg.Upload)
		if err != nil {
			logger.Fatal("Failed to configure S3 storage", zap.Error(err))
		}
		deps.Files = store
	default:
		store, err := storage.NewLocalStore(cfg.Upload.Path)
		if err != nil {
			logger.Fatal("Failed to prepare upload directory", zap.Error(err))
		}
		deps.Files = store
		deps.PhotoDir = store.Dir()
	}

	if cfg.MQTT.Broker != "" {
		client, err := events.Connect(&cfg.MQTT)
		if err != nil {
			logger.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer client.Disconnect(250 * time.Millisecond)
		deps.Publisher = events.NewMQTTPublisher(client, cfg.MQTT.Topic)
	} else {
		deps.Publisher = events.Noop{}
	}

	router := routes.SetupRoutes(ctx, cfg, deps)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}

// revocationRegistry prefers redis so revocations survive restarts and are
// shared between replicas. The returned func releases the redis client.
func revocationRegistry(ctx context.Context, cfg *config.Config) (auth.RevocationRegistry, func()) {
	if cfg.Redis.Enabled {
		client, err := revocation.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		registry := revocation.NewRedisRegistry(client)
		return registry, func() {
			if err := registry.Close(); err != nil {
				logger.Error("Failed to close redis connection", zap.Error(err))
			}
		}
	}

	registry := revocation.NewMemoryRegistry()
	go registry.StartCleanupJob(ctx, time.Hour)
	return registry, func() {}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/face-lock-service/internal/api/http"
	"github.com/spec-kit/face-lock-service/internal/api/http/handlers"
	"github.com/spec-kit/face-lock-service/internal/auth"
	"github.com/spec-kit/face-lock-service/internal/config"
	"github.com/spec-kit/face-lock-service/internal/events"
	"github.com/spec-kit/face-lock-service/internal/observability"
	"github.com/spec-kit/face-lock-service/internal/persistence"
	"github.com/spec-kit/face-lock-service/internal/recognizer"
	"github.com/spec-kit/face-lock-service/internal/repository"
	"github.com/spec-kit/face-lock-service/internal/service"
	"github.com/spec-kit/face-lock-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway, err := recognizer.NewRekognitionGateway(ctx, cfg.Rekognition, logger)
	if err != nil {
		logger.Fatal("failed to init rekognition gateway", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	profileRepo := repository.NewProfileRepository(redis.Client, cfg.Redis.ProfileTTL())

	dispatcher := events.NewInMemoryDispatcher()
	var auditRepo repository.AuditRepository
	if pool := pg.PoolHandle(); pool != nil {
		auditRepo = repository.NewAuditRepository(pool)
		worker.StartAuditWorker(service.NewAuditService(auditRepo, dispatcher, logger))
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokenManager)

	enrollmentService := service.NewEnrollmentService(gateway, profileRepo, dispatcher, logger, cfg.Enrollment)
	verificationService := service.NewVerificationService(gateway, tokenManager, dispatcher, logger, cfg.Verify.DefaultSimilarity)
	directoryService := service.NewDirectoryService(gateway, profileRepo, auditRepo, dispatcher, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 10 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Enrollment:     handlers.NewEnrollmentHandler(enrollmentService, metrics),
		Verification:   handlers.NewVerificationHandler(verificationService, metrics),
		Users:          handlers.NewUsersHandler(directoryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/qa-admin-service/internal/api/http"
	"github.com/spec-kit/qa-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/qa-admin-service/internal/config"
	"github.com/spec-kit/qa-admin-service/internal/events"
	"github.com/spec-kit/qa-admin-service/internal/objectstore"
	"github.com/spec-kit/qa-admin-service/internal/observability"
	"github.com/spec-kit/qa-admin-service/internal/persistence"
	"github.com/spec-kit/qa-admin-service/internal/repository"
	"github.com/spec-kit/qa-admin-service/internal/service"
	"github.com/spec-kit/qa-admin-service/internal/worker"
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

	store, err := persistence.NewMongo(ctx, cfg.Mongo, logger, repository.ReportCollection)
	if err != nil {
		logger.Fatal("failed to connect document store", zap.Error(err))
	}
	defer store.Close(context.Background())

	var objects *objectstore.Client
	if cfg.Storage.Enabled {
		objects, err = objectstore.NewClient(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Fatal("failed to init object storage", zap.Error(err))
		}
	} else {
		logger.Warn("object storage disabled; screenshot uploads will be rejected")
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	reportRepo := repository.NewReportRepository(store)
	deps := service.ReportDependencies{
		ReportRepo: reportRepo,
		Dispatcher: dispatcher,
	}
	if objects != nil {
		deps.Uploader = objects
	}
	reportService := service.NewReportService(deps)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{BodyLimit: 32 * 1024 * 1024})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterReportRoutes(app, httptransport.ReportRouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, objects),
		Reports: handlers.NewReportsHandler(reportService),
		Store:   store,
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

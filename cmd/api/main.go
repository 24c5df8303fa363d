package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/orgchart-service/internal/api/http"
	"github.com/spec-kit/orgchart-service/internal/api/http/handlers"
	"github.com/spec-kit/orgchart-service/internal/bootstrap"
	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/observability"
	"github.com/spec-kit/orgchart-service/internal/persistence"
	"github.com/spec-kit/orgchart-service/internal/worker"
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

	container, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise dependencies", zap.Error(err))
	}
	defer container.Close()

	if cfg.Postgres.RunMigrations && container.Postgres.Enabled() {
		if err := persistence.RunMigrations(ctx, container.Postgres.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	waitWorker := worker.StartNotificationWorker(ctx, container.Notifications, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, container.Metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, container.Postgres, container.Redis),
		Designations: handlers.NewDesignationHandler(container.Catalog),
		Departments:  handlers.NewDepartmentHandler(container.Org),
		Employees:    handlers.NewEmployeeHandler(container.Org),
		Hierarchy:    handlers.NewHierarchyHandler(container.Hierarchy),
		Metrics:      container.Metrics,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	waitWorker()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

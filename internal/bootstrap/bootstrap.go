// Package bootstrap wires stores, locks and services from configuration for
// both the HTTP server and the admin CLI.
package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/events"
	"github.com/spec-kit/orgchart-service/internal/lock"
	"github.com/spec-kit/orgchart-service/internal/observability"
	"github.com/spec-kit/orgchart-service/internal/persistence"
	"github.com/spec-kit/orgchart-service/internal/repository"
	"github.com/spec-kit/orgchart-service/internal/service"
)

// Repositories groups the resource collaborators.
type Repositories struct {
	Designations repository.DesignationRepository
	Departments  repository.DepartmentRepository
	Employees    repository.EmployeeRepository
}

// Container holds the wired application.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Postgres   *persistence.Postgres
	Redis      *persistence.Redis
	Repos      Repositories
	Locker     lock.Locker
	Dispatcher events.Dispatcher

	Catalog       *service.CatalogService
	Reconciler    *service.ReconcileService
	Hierarchy     *service.HierarchyService
	Org           *service.OrgService
	Notifications *service.NotificationService
}

// New connects to the configured stores and builds every service. Without
// POSTGRES_DSN the repositories are in-memory; without a reachable Redis the
// reconciliation lock is process-local.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		Postgres:   pg,
		Redis:      rdb,
		Dispatcher: events.NewInMemoryDispatcher(),
	}

	if pg.Enabled() {
		pool := pg.PoolHandle()
		c.Repos = Repositories{
			Designations: repository.NewDesignationRepository(pool),
			Departments:  repository.NewDepartmentRepository(pool),
			Employees:    repository.NewEmployeeRepository(pool),
		}
	} else {
		store := repository.NewMemoryStore()
		c.Repos = Repositories{
			Designations: store.Designations,
			Departments:  store.Departments,
			Employees:    store.Employees,
		}
	}

	if rdb.Reachable() {
		c.Locker = lock.NewRedisLocker(rdb.Client, cfg.Reconcile.LockTTL, logger)
		logger.Info("reconciliation lock backed by redis")
	} else {
		c.Locker = lock.NewLocalLocker()
		logger.Info("reconciliation lock is process-local")
	}

	c.Catalog = service.NewCatalogService(service.CatalogDependencies{
		DesignationRepo: c.Repos.Designations,
		Dispatcher:      c.Dispatcher,
		Logger:          logger,
	})
	c.Reconciler = service.NewReconcileService(service.ReconcileDependencies{
		Catalog:        c.Catalog,
		DepartmentRepo: c.Repos.Departments,
		Locker:         c.Locker,
		LockWait:       cfg.Reconcile.LockWait,
		Dispatcher:     c.Dispatcher,
		Metrics:        c.Metrics,
		Logger:         logger,
	})
	c.Hierarchy = service.NewHierarchyService(service.HierarchyDependencies{
		Reconciler:     c.Reconciler,
		DepartmentRepo: c.Repos.Departments,
		EmployeeRepo:   c.Repos.Employees,
		MaxDepth:       cfg.Hierarchy.MaxDepth,
		Metrics:        c.Metrics,
		Logger:         logger,
	})
	c.Org = service.NewOrgService(service.OrgDependencies{
		DepartmentRepo: c.Repos.Departments,
		EmployeeRepo:   c.Repos.Employees,
		Dispatcher:     c.Dispatcher,
		Logger:         logger,
		MaxDepth:       cfg.Hierarchy.MaxDepth,
	})
	c.Notifications = service.NewNotificationService(c.Dispatcher, logger, cfg.Notification)
	return c, nil
}

// Close releases store connections.
func (c *Container) Close() {
	c.Redis.Close()
	c.Postgres.Close()
}

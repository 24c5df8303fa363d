package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/orgchart-service/internal/api/http/handlers"
	"github.com/spec-kit/orgchart-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Designations *handlers.DesignationHandler
	Departments  *handlers.DepartmentHandler
	Employees    *handlers.EmployeeHandler
	Hierarchy    *handlers.HierarchyHandler
	Metrics      *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	org := app.Group("/orgs/:orgId")

	designations := org.Group("/designations")
	designations.Get("/", cfg.Designations.List)
	designations.Post("/", cfg.Designations.Create)
	designations.Get("/:id", cfg.Designations.Get)
	designations.Put("/:id", cfg.Designations.Update)
	designations.Delete("/:id", cfg.Designations.Delete)

	departments := org.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Post("/", cfg.Departments.Create)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Put("/:id", cfg.Departments.Update)
	departments.Delete("/:id", cfg.Departments.Delete)
	departments.Get("/:id/designations", cfg.Hierarchy.Designations)
	departments.Get("/:id/designations/tree", cfg.Hierarchy.DesignationTree)
	departments.Get("/:id/employees/tree", cfg.Hierarchy.EmployeeTree)
	departments.Get("/:id/eligibility/managers", cfg.Hierarchy.EligibleManagers)
	departments.Get("/:id/eligibility/designations", cfg.Hierarchy.SelectableDesignations)
	departments.Get("/:id/eligibility/check", cfg.Hierarchy.Check)

	employees := org.Group("/employees")
	employees.Get("/", cfg.Employees.List)
	employees.Post("/", cfg.Employees.Create)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Put("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)
}

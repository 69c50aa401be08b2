package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/qa-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/qa-admin-service/internal/persistence"
)

// ReportRouteConfig bundles dependencies for the reports API.
type ReportRouteConfig struct {
	Health  *handlers.HealthHandler
	Reports *handlers.ReportsHandler
	Store   *persistence.Mongo
}

// RegisterReportRoutes wires the reports API routes.
func RegisterReportRoutes(app *fiber.App, cfg ReportRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Reports.Root)

	reports := app.Group("/reports", RequireStore(cfg.Store))
	reports.Post("/", cfg.Reports.Create)
	reports.Get("/", cfg.Reports.List)
	reports.Put("/:id/status", cfg.Reports.UpdateStatus)
}

// UserRouteConfig bundles dependencies for the users API.
type UserRouteConfig struct {
	Health *handlers.HealthHandler
	Users  *handlers.UsersHandler
	Store  *persistence.Mongo
}

// RegisterUserRoutes wires the users API routes.
func RegisterUserRoutes(app *fiber.App, cfg UserRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/users", RequireStore(cfg.Store))
	api.Get("/", cfg.Users.List)
	api.Get("/count", cfg.Users.Count)
	api.Post("/", cfg.Users.Create)
	api.Get("/:id", cfg.Users.Get)
	api.Put("/:id", cfg.Users.Update)
	api.Delete("/:id", cfg.Users.Delete)
}

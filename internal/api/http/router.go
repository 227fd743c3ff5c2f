package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-workflow/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-workflow/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Technicians    *handlers.TechniciansHandler
	Notifications  *handlers.NotificationsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics())

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole()}
	staff := auth.RequireStaff()

	tickets := app.Group("/tickets", authenticated...)
	tickets.Get("", staff, cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/history", staff, cfg.Tickets.ListHistory)
	tickets.Put("/:id/assign", cfg.Tickets.Assign)
	tickets.Put("/:id/reassign", cfg.Tickets.Reassign)
	tickets.Put("/:id/escalate", cfg.Tickets.Escalate)
	tickets.Put("/:id/close", cfg.Tickets.Close)
	tickets.Put("/:id/reopen", cfg.Tickets.Reopen)
	tickets.Put("/:id/status", cfg.Tickets.UpdateStatus)

	technicians := app.Group("/technicians", authenticated...)
	technicians.Get("", staff, cfg.Technicians.ListTechnicians)

	notifications := app.Group("/notifications", authenticated...)
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/unread/count", cfg.Notifications.UnreadCount)
	notifications.Put("/:id/read", cfg.Notifications.MarkRead)

	reports := app.Group("/reports", append(authenticated, staff)...)
	reports.Get("/statistics", cfg.Reports.Statistics)
	reports.Get("/agencies", cfg.Reports.Agencies)
	reports.Get("/technicians", cfg.Reports.Technicians)
	reports.Get("/summary", cfg.Reports.Summary)
}

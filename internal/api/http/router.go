package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/tellerdesk/support-portal/internal/api/http/handlers"
	"github.com/tellerdesk/support-portal/internal/auth"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	// AuthRateLimit caps auth requests per IP per minute; zero disables it.
	AuthRateLimit int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	gate := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	if cfg.AuthRateLimit > 0 {
		authGroup.Use(authLimiter(cfg.AuthRateLimit))
	}
	authGroup.Post("/signup", cfg.Users.Signup)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.Users.Logout)
	authGroup.Get("/check", gate, cfg.Users.Check)

	tickets := api.Group("/tickets", gate)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/search", cfg.Tickets.SearchTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Post("/assign", cfg.Tickets.AssignTicket)
	tickets.Post("/resolve", cfg.Tickets.ResolveTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	api.Get("/agents", gate, cfg.Users.ListAgents)
	api.Get("/metrics", gate, cfg.Dashboard.Metrics)
	api.Get("/monitor/live", gate, cfg.Tickets.LiveTickets)
	api.Get("/settings", gate, cfg.Dashboard.GetSettings)
	api.Put("/settings", gate, cfg.Dashboard.UpdateSettings)
}

func authLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return apperrors.NewDomainError("RATE_LIMITED", "too many requests, try again later", fiber.StatusTooManyRequests, nil)
		},
	})
}

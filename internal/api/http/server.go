package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tellerdesk/support-portal/internal/api/http/handlers"
	"github.com/tellerdesk/support-portal/internal/auth"
	"github.com/tellerdesk/support-portal/internal/config"
	"github.com/tellerdesk/support-portal/internal/observability"
	"github.com/tellerdesk/support-portal/internal/persistence"
	"github.com/tellerdesk/support-portal/internal/repository"
	"github.com/tellerdesk/support-portal/internal/service"
)

// ServerDependencies collects everything the HTTP surface needs.
type ServerDependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	Postgres      *persistence.Postgres
	Redis         *persistence.Redis
	UserRepo      repository.UserRepository
	TicketRepo    repository.TicketRepository
	SettingsRepo  repository.SettingsRepository
	Revocations   auth.RevocationStore
	Clock         func() time.Time
	SentryEnabled bool
}

// NewServer builds the services, handlers and fiber app.
func NewServer(deps ServerDependencies) *fiber.App {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    deps.UserRepo,
		Revocations: deps.Revocations,
		Logger:      logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: deps.TicketRepo,
		UserRepo:   deps.UserRepo,
		Clock:      deps.Clock,
	})
	gate := auth.NewAuthMiddleware(authService.TokenManager(), deps.UserRepo, deps.Revocations, cfg.Auth.CookieName)
	cookie := auth.SessionCookie{
		Name:   cfg.Auth.CookieName,
		TTL:    cfg.Auth.SessionTTL(),
		Secure: !cfg.App.IsDevelopment(),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	RegisterMiddlewares(app, logger, deps.Metrics, MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
		Sentry:      deps.SentryEnabled,
	})

	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Postgres, deps.Redis, deps.Metrics),
		Users:          handlers.NewUsersHandler(authService, service.NewAgentService(deps.UserRepo), cookie),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Dashboard:      handlers.NewDashboardHandler(service.NewMetricsService(deps.TicketRepo), service.NewSettingsService(deps.SettingsRepo)),
		AuthMiddleware: gate,
		AuthRateLimit:  cfg.Auth.RateLimitPerMinute,
	})
	return app
}

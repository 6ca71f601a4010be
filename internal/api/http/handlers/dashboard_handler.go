package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tellerdesk/support-portal/internal/api/dto"
	"github.com/tellerdesk/support-portal/internal/auth"
	"github.com/tellerdesk/support-portal/internal/service"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// DashboardHandler serves metrics and per-user settings.
type DashboardHandler struct {
	metrics  *service.MetricsService
	settings *service.SettingsService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(metrics *service.MetricsService, settings *service.SettingsService) *DashboardHandler {
	return &DashboardHandler{metrics: metrics, settings: settings}
}

// Metrics GET /api/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	m, err := h.metrics.GetMetrics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.MetricsResponse{Total: m.Total, Open: m.Open, Closed: m.Closed})
}

// GetSettings GET /api/settings. Responds with null before the first save.
func (h *DashboardHandler) GetSettings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	settings, err := h.settings.Get(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

// UpdateSettings PUT /api/settings.
func (h *DashboardHandler) UpdateSettings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	settings, err := h.settings.Update(c.UserContext(), principal.UserID, req.Settings())
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

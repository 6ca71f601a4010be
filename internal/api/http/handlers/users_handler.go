package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tellerdesk/support-portal/internal/api/dto"
	"github.com/tellerdesk/support-portal/internal/auth"
	"github.com/tellerdesk/support-portal/internal/service"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// UsersHandler exposes account, session and agent listing endpoints.
type UsersHandler struct {
	auth   *service.AuthService
	agents *service.AgentService
	cookie auth.SessionCookie
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, agentService *service.AgentService, cookie auth.SessionCookie) *UsersHandler {
	return &UsersHandler{auth: authService, agents: agentService, cookie: cookie}
}

// Signup handles POST /api/auth/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	session, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	h.cookie.Set(c, session.Token)
	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{Success: true, User: session.User})
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookie.Set(c, session.Token)
	return c.JSON(dto.AuthResponse{Success: true, User: session.User})
}

// Logout handles POST /api/auth/logout. It succeeds with or without a session.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if token, err := auth.TokenFromRequest(c, h.cookie.Name); err == nil {
		h.auth.Logout(c.UserContext(), token)
	}
	h.cookie.Clear(c)
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// Check handles GET /api/auth/check.
func (h *UsersHandler) Check(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	user, err := h.auth.CheckSession(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Success: true, User: user})
}

// ListAgents handles GET /api/agents.
func (h *UsersHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.agents.ListAgents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(agents)
}

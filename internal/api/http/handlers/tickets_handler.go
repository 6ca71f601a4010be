package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tellerdesk/support-portal/internal/api/dto"
	"github.com/tellerdesk/support-portal/internal/auth"
	"github.com/tellerdesk/support-portal/internal/service"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), principal.UserID, req.Draft())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PopulatedTicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewPopulatedTicketResponse(&tickets[i].Ticket, tickets[i].Assignee, tickets[i].Creator))
	}
	return c.JSON(items)
}

// SearchTickets GET /api/tickets/search?status=&priority=&search=.
func (h *TicketsHandler) SearchTickets(c *fiber.Ctx) error {
	tickets, err := h.service.Search(c.UserContext(), service.TicketSearch{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// AssignTicket POST /api/tickets/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Assign(c.UserContext(), req.TicketID, req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// ResolveTicket POST /api/tickets/resolve.
func (h *TicketsHandler) ResolveTicket(c *fiber.Ctx) error {
	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SatisfactionScore == nil {
		return apperrors.NewValidationError("satisfactionScore required", nil)
	}
	ticket, err := h.service.Resolve(c.UserContext(), req.TicketID, *req.SatisfactionScore)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Ticket deleted successfully"})
}

// LiveTickets GET /api/monitor/live.
func (h *TicketsHandler) LiveTickets(c *fiber.Ctx) error {
	tickets, err := h.service.LiveTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tellerdesk/support-portal/internal/domain"
	"github.com/tellerdesk/support-portal/internal/repository"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	now     func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Clock      func() time.Time
}

// TicketSearch holds the optional search filters; empty fields are ignored.
type TicketSearch struct {
	Status   string
	Priority string
	Search   string
}

// PopulatedTicket carries a ticket with its assignee and creator resolved.
type PopulatedTicket struct {
	Ticket   domain.Ticket
	Assignee *domain.User
	Creator  *domain.User
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{tickets: deps.TicketRepo, users: deps.UserRepo, now: clock}
}

// Create stores a new ticket owned by creatorID.
func (s *TicketService) Create(ctx context.Context, creatorID string, draft domain.TicketDraft) (*domain.Ticket, error) {
	ticket, err := domain.NewTicket(draft, creatorID)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return ticket, nil
}

// List returns every ticket with assignee and creator populated.
func (s *TicketService) List(ctx context.Context) ([]PopulatedTicket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	ids := make([]string, 0, len(tickets)*2)
	for _, ticket := range tickets {
		ids = append(ids, ticket.CreatedBy)
		if ticket.AssignedTo != nil {
			ids = append(ids, *ticket.AssignedTo)
		}
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	result := make([]PopulatedTicket, 0, len(tickets))
	for _, ticket := range tickets {
		populated := PopulatedTicket{Ticket: ticket, Creator: byID[ticket.CreatedBy]}
		if ticket.AssignedTo != nil {
			populated.Assignee = byID[*ticket.AssignedTo]
		}
		result = append(result, populated)
	}
	return result, nil
}

// Search filters tickets by exact status, exact priority and title substring.
func (s *TicketService) Search(ctx context.Context, search TicketSearch) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Status:   domain.TicketStatus(strings.TrimSpace(search.Status)),
		Priority: domain.TicketPriority(strings.TrimSpace(search.Priority)),
		Search:   search.Search,
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// Assign hands a ticket to an agent. Resolved and closed tickets are rejected;
// concurrent assignments are last-write-wins.
func (s *TicketService) Assign(ctx context.Context, ticketID, agentID string) (*domain.Ticket, error) {
	ticketID = strings.TrimSpace(ticketID)
	agentID = strings.TrimSpace(agentID)
	if ticketID == "" || agentID == "" {
		return nil, apperrors.NewValidationError("ticketId and agentId required", nil)
	}

	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := ticket.Assign(agentID, s.now()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Resolve closes out a ticket with the customer's satisfaction score.
func (s *TicketService) Resolve(ctx context.Context, ticketID string, score int) (*domain.Ticket, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, apperrors.NewValidationError("ticketId required", nil)
	}
	if err := domain.ValidateSatisfactionScore(score); err != nil {
		return nil, err
	}

	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := ticket.Resolve(score, s.now()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete removes a ticket by id.
func (s *TicketService) Delete(ctx context.Context, ticketID string) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ticketNotFound(ticketID)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// LiveTickets returns the tickets agents are currently working.
func (s *TicketService) LiveTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{Status: domain.TicketStatusInProgress})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

func (s *TicketService) load(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ticketNotFound(ticketID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return ticket, nil
}

func (s *TicketService) save(ctx context.Context, ticket *domain.Ticket) error {
	if err := s.tickets.Update(ctx, ticket); err != nil {
		// deleted between load and save
		if errors.Is(err, repository.ErrNotFound) {
			return ticketNotFound(ticket.ID)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func ticketNotFound(ticketID string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
}

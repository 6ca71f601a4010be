package dto

import (
	"time"

	"github.com/tellerdesk/support-portal/internal/domain"
)

// CreateTicketRequest payload. Any client supplied creator is ignored.
type CreateTicketRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	CustomerName string  `json:"customerName"`
	CustomerID   string  `json:"customerId"`
	Channel      string  `json:"channel"`
	Category     string  `json:"category"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	AssignedTo   *string `json:"assignedTo"`
}

// Draft converts the payload into domain input.
func (r CreateTicketRequest) Draft() domain.TicketDraft {
	return domain.TicketDraft{
		Title:        r.Title,
		Description:  r.Description,
		CustomerName: r.CustomerName,
		CustomerID:   r.CustomerID,
		Channel:      r.Channel,
		Category:     r.Category,
		Status:       r.Status,
		Priority:     r.Priority,
		AssignedTo:   r.AssignedTo,
	}
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	TicketID string `json:"ticketId"`
	AgentID  string `json:"agentId"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	TicketID          string `json:"ticketId"`
	SatisfactionScore *int   `json:"satisfactionScore"`
}

// TicketResponse is the wire form of a ticket with user references as ids.
type TicketResponse struct {
	ID                string                `json:"id"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	CustomerName      string                `json:"customerName"`
	CustomerID        string                `json:"customerId"`
	Channel           domain.TicketChannel  `json:"channel"`
	Category          domain.TicketCategory `json:"category"`
	Status            domain.TicketStatus   `json:"status"`
	Priority          domain.TicketPriority `json:"priority"`
	AssignedTo        *string               `json:"assignedTo"`
	CreatedBy         string                `json:"createdBy"`
	SatisfactionScore *int                  `json:"satisfactionScore"`
	ResolutionTime    *int                  `json:"resolutionTime"`
	ResolvedAt        *time.Time            `json:"resolvedAt"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// UserRef is a populated user reference.
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
}

// PopulatedTicketResponse replaces the user id references with user summaries.
// References to users that no longer resolve render as null.
type PopulatedTicketResponse struct {
	TicketResponse
	AssignedTo *UserRef `json:"assignedTo"`
	CreatedBy  *UserRef `json:"createdBy"`
}

// MessageResponse is the body of operations that only report success.
type MessageResponse struct {
	Message string `json:"message"`
}

// MetricsResponse carries dashboard counts.
type MetricsResponse struct {
	Total  int64 `json:"total"`
	Open   int64 `json:"open"`
	Closed int64 `json:"closed"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                ticket.ID,
		Title:             ticket.Title,
		Description:       ticket.Description,
		CustomerName:      ticket.CustomerName,
		CustomerID:        ticket.CustomerID,
		Channel:           ticket.Channel,
		Category:          ticket.Category,
		Status:            ticket.Status,
		Priority:          ticket.Priority,
		AssignedTo:        ticket.AssignedTo,
		CreatedBy:         ticket.CreatedBy,
		SatisfactionScore: ticket.SatisfactionScore,
		ResolutionTime:    ticket.ResolutionTime,
		ResolvedAt:        ticket.ResolvedAt,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a slice, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// NewPopulatedTicketResponse maps a ticket with resolved users.
func NewPopulatedTicketResponse(ticket *domain.Ticket, assignee, creator *domain.User) PopulatedTicketResponse {
	resp := PopulatedTicketResponse{TicketResponse: NewTicketResponse(ticket)}
	if assignee != nil {
		resp.AssignedTo = &UserRef{ID: assignee.ID, FullName: assignee.FullName, Email: assignee.Email}
	}
	if creator != nil {
		resp.CreatedBy = &UserRef{ID: creator.ID, FullName: creator.FullName}
	}
	return resp
}

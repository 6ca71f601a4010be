package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusWaiting    TicketStatus = "waiting"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketChannel is how the customer reached the bank.
type TicketChannel string

const (
	TicketChannelPhone    TicketChannel = "phone"
	TicketChannelEmail    TicketChannel = "email"
	TicketChannelChat     TicketChannel = "chat"
	TicketChannelInPerson TicketChannel = "in-person"
)

// TicketCategory groups tickets by banking product.
type TicketCategory string

const (
	TicketCategoryAccount     TicketCategory = "account"
	TicketCategoryTransaction TicketCategory = "transaction"
	TicketCategoryLoan        TicketCategory = "loan"
	TicketCategoryCard        TicketCategory = "card"
	TicketCategoryGeneral     TicketCategory = "general"
)

// Satisfaction score bounds.
const (
	MinSatisfactionScore = 1
	MaxSatisfactionScore = 5
)

// Ticket is a customer service request.
type Ticket struct {
	ID                string
	Title             string
	Description       string
	CustomerName      string
	CustomerID        string
	Channel           TicketChannel
	Category          TicketCategory
	Status            TicketStatus
	Priority          TicketPriority
	AssignedTo        *string
	CreatedBy         string
	SatisfactionScore *int
	ResolutionTime    *int
	ResolvedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TicketDraft is unvalidated creation input.
type TicketDraft struct {
	Title        string
	Description  string
	CustomerName string
	CustomerID   string
	Channel      string
	Category     string
	Status       string
	Priority     string
	AssignedTo   *string
}

// NewTicket validates a draft, applies defaults and binds the creator.
func NewTicket(draft TicketDraft, creatorID string) (*Ticket, error) {
	if strings.TrimSpace(creatorID) == "" {
		return nil, apperrors.NewValidationError("ticket creator required", nil)
	}
	ticket := &Ticket{
		Title:        strings.TrimSpace(draft.Title),
		Description:  strings.TrimSpace(draft.Description),
		CustomerName: strings.TrimSpace(draft.CustomerName),
		CustomerID:   strings.TrimSpace(draft.CustomerID),
		Channel:      TicketChannel(orDefault(draft.Channel, string(TicketChannelPhone))),
		Category:     TicketCategory(orDefault(draft.Category, string(TicketCategoryGeneral))),
		Status:       TicketStatus(orDefault(draft.Status, string(TicketStatusOpen))),
		Priority:     TicketPriority(orDefault(draft.Priority, string(TicketPriorityMedium))),
		CreatedBy:    creatorID,
	}
	if draft.AssignedTo != nil && strings.TrimSpace(*draft.AssignedTo) != "" {
		assignee := strings.TrimSpace(*draft.AssignedTo)
		ticket.AssignedTo = &assignee
	}

	if ticket.Title == "" || ticket.CustomerName == "" {
		return nil, apperrors.NewValidationError("title and customerName required", nil)
	}
	if !ticket.Channel.Valid() {
		return nil, invalidField("channel", ticket.Channel)
	}
	if !ticket.Category.Valid() {
		return nil, invalidField("category", ticket.Category)
	}
	if !ticket.Status.Valid() {
		return nil, invalidField("status", ticket.Status)
	}
	if !ticket.Priority.Valid() {
		return nil, invalidField("priority", ticket.Priority)
	}
	return ticket, nil
}

// IsTerminal reports whether the ticket has left the working flow. Terminal
// tickets accept no further assignment or resolution.
func (t *Ticket) IsTerminal() bool {
	return t.Status == TicketStatusResolved || t.Status == TicketStatusClosed
}

// Assign hands the ticket to an agent; assignment always moves it to in_progress.
func (t *Ticket) Assign(agentID string, now time.Time) error {
	if t.IsTerminal() {
		return terminalTicket(t, "assign")
	}
	t.AssignedTo = &agentID
	t.Status = TicketStatusInProgress
	t.UpdatedAt = now
	return nil
}

// Resolve records the outcome and the whole minutes elapsed since creation.
func (t *Ticket) Resolve(score int, now time.Time) error {
	if err := ValidateSatisfactionScore(score); err != nil {
		return err
	}
	if t.IsTerminal() {
		return terminalTicket(t, "resolve")
	}
	minutes := int(now.Sub(t.CreatedAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	t.Status = TicketStatusResolved
	t.SatisfactionScore = &score
	t.ResolutionTime = &minutes
	t.ResolvedAt = &now
	t.UpdatedAt = now
	return nil
}

// ValidateSatisfactionScore enforces the 1–5 scale.
func ValidateSatisfactionScore(score int) error {
	if score < MinSatisfactionScore || score > MaxSatisfactionScore {
		return apperrors.NewValidationError("satisfactionScore must be between 1 and 5",
			map[string]any{"satisfactionScore": score})
	}
	return nil
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaiting, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Valid reports whether c is a known channel.
func (c TicketChannel) Valid() bool {
	switch c {
	case TicketChannelPhone, TicketChannelEmail, TicketChannelChat, TicketChannelInPerson:
		return true
	}
	return false
}

// Valid reports whether c is a known category.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryAccount, TicketCategoryTransaction, TicketCategoryLoan, TicketCategoryCard, TicketCategoryGeneral:
		return true
	}
	return false
}

func terminalTicket(t *Ticket, action string) error {
	return apperrors.NewConflict(
		fmt.Sprintf("cannot %s a %s ticket", action, t.Status),
		map[string]any{"ticket_id": t.ID, "status": t.Status})
}

func orDefault(val, fallback string) string {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == "" {
		return fallback
	}
	return val
}

func invalidField[T ~string](field string, value T) error {
	return apperrors.NewValidationError("invalid "+field, map[string]any{field: string(value)})
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellerdesk/support-portal/internal/domain"
)

func TestMemoryUsersEnforceUniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()

	first := &domain.User{Email: "a@b.com", FullName: "Ann", Role: domain.RoleAgent}
	require.NoError(t, users.Create(ctx, first))
	assert.NotEmpty(t, first.ID)

	err := users.Create(ctx, &domain.User{Email: "a@b.com", FullName: "Other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := users.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsersListByRoleAndIDs(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()

	bob := &domain.User{Email: "bob@b.com", FullName: "Bob", Role: domain.RoleAgent}
	ann := &domain.User{Email: "ann@b.com", FullName: "Ann", Role: domain.RoleAgent}
	root := &domain.User{Email: "root@b.com", FullName: "Root", Role: domain.RoleAdmin}
	for _, u := range []*domain.User{bob, ann, root} {
		require.NoError(t, users.Create(ctx, u))
	}

	agents, err := users.ListByRole(ctx, domain.RoleAgent)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "Ann", agents[0].FullName)
	assert.Equal(t, "Bob", agents[1].FullName)

	found, err := users.GetByIDs(ctx, []string{root.ID, "nope", root.ID, bob.ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestMemoryTicketsLifecycle(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	store := NewMemoryStore().WithClock(func() time.Time { return clock })
	tickets := store.Tickets()

	first := &domain.Ticket{Title: "Card blocked", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh, CreatedBy: "u1"}
	require.NoError(t, tickets.Create(ctx, first))
	second := &domain.Ticket{Title: "Loan question", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow, CreatedBy: "u1"}
	require.NoError(t, tickets.Create(ctx, second))

	all, err := tickets.List(ctx, TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "same timestamp falls back to newest insertion first")

	clock = base.Add(time.Minute)
	first.Status = domain.TicketStatusInProgress
	first.CreatedBy = "someone-else"
	require.NoError(t, tickets.Update(ctx, first))

	stored, err := tickets.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
	assert.Equal(t, "u1", stored.CreatedBy, "creator is immutable")
	assert.Equal(t, base, stored.CreatedAt)
	assert.Equal(t, clock, stored.UpdatedAt)

	count, err := tickets.Count(ctx, domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, tickets.Delete(ctx, second.ID))
	assert.ErrorIs(t, tickets.Delete(ctx, second.ID), ErrNotFound)
	assert.ErrorIs(t, tickets.Update(ctx, second), ErrNotFound)

	total, err := tickets.Count(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestMemoryTicketsFilter(t *testing.T) {
	ctx := context.Background()
	tickets := NewMemoryStore().Tickets()
	seed := []domain.Ticket{
		{Title: "Unable to access online banking", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh},
		{Title: "Fraudulent transaction on credit card", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityUrgent},
		{Title: "Online statement missing", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityHigh},
	}
	for i := range seed {
		require.NoError(t, tickets.Create(ctx, &seed[i]))
	}

	tests := []struct {
		name   string
		filter TicketFilter
		want   int
	}{
		{"no filter", TicketFilter{}, 3},
		{"status", TicketFilter{Status: domain.TicketStatusOpen}, 2},
		{"priority", TicketFilter{Priority: domain.TicketPriorityHigh}, 2},
		{"search is case-insensitive", TicketFilter{Search: "ONLINE"}, 2},
		{"combined", TicketFilter{Status: domain.TicketStatusOpen, Search: "online"}, 1},
		{"no match", TicketFilter{Search: "mortgage"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tickets.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestMemoryTicketsReturnCopies(t *testing.T) {
	ctx := context.Background()
	tickets := NewMemoryStore().Tickets()
	agent := "agent-1"
	ticket := &domain.Ticket{Title: "x", AssignedTo: &agent}
	require.NoError(t, tickets.Create(ctx, ticket))

	got, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	*got.AssignedTo = "mutated"

	again, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", *again.AssignedTo)
}

func TestMemorySettingsUpsert(t *testing.T) {
	ctx := context.Background()
	settings := NewMemoryStore().Settings()

	_, err := settings.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	doc := &domain.Settings{UserID: "u1", Contact: domain.ContactSettings{Phone: "555"}}
	require.NoError(t, settings.Upsert(ctx, doc))
	require.NoError(t, settings.Upsert(ctx, &domain.Settings{UserID: "u1", Security: domain.SecuritySettings{TwoFactorAuth: true}}))

	got, err := settings.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.Security.TwoFactorAuth)
	assert.Empty(t, got.Contact.Phone, "upsert replaces the whole document")
}

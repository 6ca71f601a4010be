package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tellerdesk/support-portal/internal/domain"
)

// MemoryStore keeps every collection in process memory. It backs local runs
// without POSTGRES_DSN and the test suites.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	emails   map[string]string
	tickets  map[string]domain.Ticket
	seq      map[string]uint64
	next     uint64
	settings map[string]domain.Settings
	now      func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		emails:   make(map[string]string),
		tickets:  make(map[string]domain.Ticket),
		seq:      make(map[string]uint64),
		settings: make(map[string]domain.Settings),
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Users exposes the store as a UserRepository.
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Tickets exposes the store as a TicketRepository.
func (s *MemoryStore) Tickets() TicketRepository { return memoryTickets{s} }

// Settings exposes the store as a SettingsRepository.
func (s *MemoryStore) Settings() SettingsRepository { return memorySettings{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.emails[user.Email]; exists {
		return ErrDuplicate
	}
	now := r.s.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	r.s.emails[user.Email] = user.ID
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.s.users[id]
	return &user, nil
}

func (r memoryUsers) GetByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.User{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if user, ok := r.s.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r memoryUsers) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.User{}
	for _, user := range r.s.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

type memoryTickets struct{ s *MemoryStore }

func (r memoryTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.s.next++
	r.s.seq[ticket.ID] = r.s.next
	r.s.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r memoryTickets) Update(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tickets[ticket.ID]
	if !ok {
		return ErrNotFound
	}
	updated := cloneTicket(*ticket)
	updated.CreatedBy = stored.CreatedBy
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = r.s.now()
	r.s.tickets[ticket.ID] = updated
	ticket.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r memoryTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	ticket = cloneTicket(ticket)
	return &ticket, nil
}

func (r memoryTickets) List(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := []domain.Ticket{}
	for _, ticket := range r.s.tickets {
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && ticket.Priority != filter.Priority {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(ticket.Title), search) {
			continue
		}
		result = append(result, cloneTicket(ticket))
	}
	// newest first, insertion order breaks timestamp ties
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return r.s.seq[result[i].ID] > r.s.seq[result[j].ID]
	})
	return result, nil
}

func (r memoryTickets) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.tickets, id)
	delete(r.s.seq, id)
	return nil
}

func (r memoryTickets) Count(_ context.Context, status domain.TicketStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if status == "" {
		return int64(len(r.s.tickets)), nil
	}
	var count int64
	for _, ticket := range r.s.tickets {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

type memorySettings struct{ s *MemoryStore }

func (r memorySettings) Get(_ context.Context, userID string) (*domain.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	settings, ok := r.s.settings[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &settings, nil
}

func (r memorySettings) Upsert(_ context.Context, settings *domain.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settings.UpdatedAt = r.s.now()
	r.s.settings[settings.UserID] = *settings
	return nil
}

// cloneTicket copies pointer fields so callers never alias stored state.
func cloneTicket(t domain.Ticket) domain.Ticket {
	t.AssignedTo = clonePtr(t.AssignedTo)
	t.SatisfactionScore = clonePtr(t.SatisfactionScore)
	t.ResolutionTime = clonePtr(t.ResolutionTime)
	t.ResolvedAt = clonePtr(t.ResolvedAt)
	return t
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

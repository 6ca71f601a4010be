package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tellerdesk/support-portal/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

const uniqueViolation = "23505"

// TicketFilter narrows ticket listings. Zero values mean "no constraint".
type TicketFilter struct {
	Status   domain.TicketStatus
	Priority domain.TicketPriority
	// Search is a case-insensitive substring of the title.
	Search string
}

// mapPgError normalizes driver errors into repository sentinels.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// validID screens ids before they reach uuid-typed columns.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// validIDs keeps the parseable ids, once each, in first-seen order.
func validIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || !validID(id) {
			continue
		}
		seen[id] = struct{}{}
		valid = append(valid, id)
	}
	return valid
}

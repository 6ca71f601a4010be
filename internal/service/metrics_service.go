package service

import (
	"context"

	"github.com/tellerdesk/support-portal/internal/domain"
	"github.com/tellerdesk/support-portal/internal/repository"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// TicketMetrics are headline counts for the dashboard. Resolved tickets count
// as neither open nor closed.
type TicketMetrics struct {
	Total  int64
	Open   int64
	Closed int64
}

// MetricsService aggregates ticket counts at read time.
type MetricsService struct {
	tickets repository.TicketRepository
}

// NewMetricsService constructs the service.
func NewMetricsService(tickets repository.TicketRepository) *MetricsService {
	return &MetricsService{tickets: tickets}
}

// GetMetrics counts tickets on every call; nothing is cached.
func (s *MetricsService) GetMetrics(ctx context.Context) (TicketMetrics, error) {
	var m TicketMetrics
	var err error
	if m.Total, err = s.tickets.Count(ctx, ""); err != nil {
		return TicketMetrics{}, apperrors.NewInternalError(err)
	}
	if m.Open, err = s.tickets.Count(ctx, domain.TicketStatusOpen); err != nil {
		return TicketMetrics{}, apperrors.NewInternalError(err)
	}
	if m.Closed, err = s.tickets.Count(ctx, domain.TicketStatusClosed); err != nil {
		return TicketMetrics{}, apperrors.NewInternalError(err)
	}
	return m, nil
}

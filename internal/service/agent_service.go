package service

import (
	"context"

	"github.com/tellerdesk/support-portal/internal/domain"
	"github.com/tellerdesk/support-portal/internal/repository"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// AgentService lists users who can be assigned tickets.
type AgentService struct {
	users repository.UserRepository
}

// NewAgentService constructs the service.
func NewAgentService(users repository.UserRepository) *AgentService {
	return &AgentService{users: users}
}

// ListAgents returns every user with the agent role, without credentials.
func (s *AgentService) ListAgents(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.ListByRole(ctx, domain.RoleAgent)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	agents := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		agents = append(agents, users[i].Public())
	}
	return agents, nil
}

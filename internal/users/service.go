package users

import (
	"context"
	"fmt"

	"github.com/meridian-club/meridian/internal/shared"
)

// Service handles user management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users without password material.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// ChangeRole applies a promote or demote action to the target user on
// behalf of the acting admin. An admin demoting their own account is
// rejected explicitly and leaves the role untouched.
func (s *Service) ChangeRole(ctx context.Context, actorID, targetID int64, action RoleAction) error {
	if !action.Valid() {
		return fmt.Errorf("users: unknown role action %q", action)
	}
	if targetID <= 0 {
		return fmt.Errorf("users: invalid user id %d", targetID)
	}
	if action == ActionDemote && targetID == actorID {
		return shared.ErrSelfDemotion
	}
	return s.repo.UpdateRole(ctx, targetID, action.TargetRole())
}

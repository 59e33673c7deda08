package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name, description string) (Role, error)
	UpdateRole(ctx context.Context, id int64, name, description string) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
	CountUsers(ctx context.Context, roleID int64) (int64, error)
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles with their assigned user counts.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name, description string) (Role, error) {
	return s.repo.CreateRole(ctx, strings.TrimSpace(name), strings.TrimSpace(description))
}

// UpdateRole updates an existing role.
func (s *Service) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	return s.repo.UpdateRole(ctx, id, strings.TrimSpace(name), strings.TrimSpace(description))
}

// DeleteRole removes a role. Deletion is refused while any user still
// references the role.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	if _, err := s.repo.GetRole(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: cannot delete role with assigned users", httpx.ErrValidation)
	}
	return s.repo.DeleteRole(ctx, id)
}

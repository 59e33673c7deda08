package rolemenus

import (
	"context"
	"fmt"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// RepositoryPort defines data access methods for grants. ReplaceForRole must
// be atomic: readers never observe the role with an empty grant set mid-way.
type RepositoryPort interface {
	ListGrants(ctx context.Context, roleID *int64) ([]Grant, error)
	UpsertGrant(ctx context.Context, grant Grant) (Grant, error)
	ReplaceForRole(ctx context.Context, roleID int64, grants []Grant) ([]Grant, error)
	DeleteGrant(ctx context.Context, id int64) error
	RoleExists(ctx context.Context, roleID int64) (bool, error)
	MenuExists(ctx context.Context, menuID int64) (bool, error)
}

// Service handles grant business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListGrants returns grants, optionally filtered to one role.
func (s *Service) ListGrants(ctx context.Context, roleID *int64) ([]Grant, error) {
	return s.repo.ListGrants(ctx, roleID)
}

// UpsertGrant creates or updates the grant for the (role, menu) pair.
func (s *Service) UpsertGrant(ctx context.Context, grant Grant) (Grant, error) {
	if err := s.checkReferences(ctx, grant.RoleID, []Grant{grant}); err != nil {
		return Grant{}, err
	}
	return s.repo.UpsertGrant(ctx, grant)
}

// ReplaceForRole swaps the role's entire grant set for the given one in a
// single transaction.
func (s *Service) ReplaceForRole(ctx context.Context, roleID int64, grants []Grant) ([]Grant, error) {
	if err := s.checkReferences(ctx, roleID, grants); err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(grants))
	for _, grant := range grants {
		if _, dup := seen[grant.MenuID]; dup {
			return nil, fmt.Errorf("%w: duplicate menu %d in permission set", httpx.ErrValidation, grant.MenuID)
		}
		seen[grant.MenuID] = struct{}{}
	}
	return s.repo.ReplaceForRole(ctx, roleID, grants)
}

// DeleteGrant removes a grant by ID.
func (s *Service) DeleteGrant(ctx context.Context, id int64) error {
	return s.repo.DeleteGrant(ctx, id)
}

func (s *Service) checkReferences(ctx context.Context, roleID int64, grants []Grant) error {
	ok, err := s.repo.RoleExists(ctx, roleID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: role %d", httpx.ErrNotFound, roleID)
	}
	for _, grant := range grants {
		ok, err := s.repo.MenuExists(ctx, grant.MenuID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: menu %d", httpx.ErrNotFound, grant.MenuID)
		}
	}
	return nil
}

package menus

import (
	"context"
	"errors"
	"fmt"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// RepositoryPort defines data access methods for menus.
type RepositoryPort interface {
	ListMenus(ctx context.Context) ([]Menu, error)
	ListReadableMenus(ctx context.Context, roleID int64) ([]Menu, error)
	GetMenu(ctx context.Context, id int64) (Menu, error)
	CreateMenu(ctx context.Context, menu Menu) (Menu, error)
	UpdateMenu(ctx context.Context, menu Menu) (Menu, error)
	DeleteMenu(ctx context.Context, id int64) error
}

// Service handles menu business logic, including the acyclicity check on
// writes: the parent chain is walked to the root and must not revisit the
// menu being written.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListMenus returns the full menu forest ordered by orderIndex.
func (s *Service) ListMenus(ctx context.Context) ([]Menu, error) {
	return s.repo.ListMenus(ctx)
}

// ListReadableMenus returns the menus the given role holds canRead on,
// ordered by orderIndex. The superuser role is handled by the caller.
func (s *Service) ListReadableMenus(ctx context.Context, roleID int64) ([]Menu, error) {
	return s.repo.ListReadableMenus(ctx, roleID)
}

// CreateMenu inserts a menu after validating its parent reference.
func (s *Service) CreateMenu(ctx context.Context, menu Menu) (Menu, error) {
	if err := s.validateParent(ctx, 0, menu.ParentID); err != nil {
		return Menu{}, err
	}
	return s.repo.CreateMenu(ctx, menu)
}

// UpdateMenu updates a menu after validating that the new parent exists and
// does not close a cycle through the menu itself.
func (s *Service) UpdateMenu(ctx context.Context, menu Menu) (Menu, error) {
	if _, err := s.repo.GetMenu(ctx, menu.ID); err != nil {
		return Menu{}, err
	}
	if err := s.validateParent(ctx, menu.ID, menu.ParentID); err != nil {
		return Menu{}, err
	}
	return s.repo.UpdateMenu(ctx, menu)
}

// DeleteMenu removes a menu by ID.
func (s *Service) DeleteMenu(ctx context.Context, id int64) error {
	return s.repo.DeleteMenu(ctx, id)
}

// validateParent checks that parentID references an existing menu and that
// following the parent chain never reaches selfID. selfID 0 means a create,
// where only existence can be violated.
func (s *Service) validateParent(ctx context.Context, selfID int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if selfID != 0 && *parentID == selfID {
		return fmt.Errorf("%w: menu cannot be its own parent", httpx.ErrValidation)
	}
	seen := map[int64]struct{}{}
	current := *parentID
	for {
		if _, dup := seen[current]; dup {
			return fmt.Errorf("%w: menu hierarchy contains a cycle", httpx.ErrValidation)
		}
		seen[current] = struct{}{}

		parent, err := s.repo.GetMenu(ctx, current)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				return fmt.Errorf("%w: parent menu %d does not exist", httpx.ErrValidation, current)
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == selfID && selfID != 0 {
			return fmt.Errorf("%w: menu hierarchy contains a cycle", httpx.ErrValidation)
		}
		current = *parent.ParentID
	}
}

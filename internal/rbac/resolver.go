package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/accesshub/accesshub/internal/authn"
)

// Store is the narrow credential store contract the resolver consumes. The
// Postgres implementation lives in store.sql.go; tests inject fakes.
type Store interface {
	GetRoleByID(ctx context.Context, id int64) (Role, error)
	GetMenuByPath(ctx context.Context, path string) (Menu, error)
	GetGrant(ctx context.Context, roleID, menuID int64) (Grant, error)
}

// Resolver determines the effective grant of a principal on a resource path.
type Resolver struct {
	store         Store
	superuserRole string
}

// NewResolver constructs a Resolver. superuserRole is the distinguished role
// name that bypasses all grant checks.
func NewResolver(store Store, superuserRole string) *Resolver {
	return &Resolver{store: store, superuserRole: superuserRole}
}

// IsSuperuser reports whether the principal's role name equals the superuser
// sentinel. Used for coarse, resource-independent gating.
func (r *Resolver) IsSuperuser(ctx context.Context, p authn.Principal) (bool, error) {
	role, err := r.store.GetRoleByID(ctx, p.RoleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: load role: %v", ErrPermissionCheck, err)
	}
	return role.Name == r.superuserRole, nil
}

// Resolve returns nil when the principal may perform the capability on the
// resource path. The superuser role is the only implicit-all-permissions case;
// every other role needs a grant row with the matching flag set.
func (r *Resolver) Resolve(ctx context.Context, p authn.Principal, resourcePath string, capability Capability) error {
	super, err := r.IsSuperuser(ctx, p)
	if err != nil {
		return err
	}
	if super {
		return nil
	}

	menu, err := r.store.GetMenuByPath(ctx, resourcePath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrResourceNotConfigured, resourcePath)
		}
		return fmt.Errorf("%w: load menu: %v", ErrPermissionCheck, err)
	}

	grant, err := r.store.GetGrant(ctx, p.RoleID, menu.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrDenied
		}
		return fmt.Errorf("%w: load grant: %v", ErrPermissionCheck, err)
	}
	if !grant.Allows(capability) {
		return ErrDenied
	}
	return nil
}

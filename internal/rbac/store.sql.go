package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore provides the PostgreSQL backed credential store reads used by the
// resolver. Grants are read-only at check time, so no transaction is taken.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// GetRoleByID fetches a role by ID.
func (s *PGStore) GetRoleByID(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := s.pool.QueryRow(ctx,
		`SELECT id, name FROM roles WHERE id = $1`, id,
	).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// GetMenuByPath fetches the menu whose path equals the resource path.
func (s *PGStore) GetMenuByPath(ctx context.Context, path string) (Menu, error) {
	var menu Menu
	err := s.pool.QueryRow(ctx,
		`SELECT id, path FROM menus WHERE path = $1`, path,
	).Scan(&menu.ID, &menu.Path)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Menu{}, ErrNotFound
		}
		return Menu{}, err
	}
	return menu, nil
}

// GetGrant fetches the grant row for a (role, menu) pair.
func (s *PGStore) GetGrant(ctx context.Context, roleID, menuID int64) (Grant, error) {
	var grant Grant
	err := s.pool.QueryRow(ctx,
		`SELECT role_id, menu_id, can_read, can_write, can_update, can_delete
		 FROM role_menus WHERE role_id = $1 AND menu_id = $2`, roleID, menuID,
	).Scan(&grant.RoleID, &grant.MenuID, &grant.CanRead, &grant.CanWrite, &grant.CanUpdate, &grant.CanDelete)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Grant{}, ErrNotFound
		}
		return Grant{}, err
	}
	return grant, nil
}

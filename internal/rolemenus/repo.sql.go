package rolemenus

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accesshub/accesshub/internal/platform/db"
	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const grantColumns = `id, role_id, menu_id, can_read, can_write, can_update, can_delete, created_at, updated_at`

// ListGrants returns grants, optionally filtered to one role.
func (r *Repository) ListGrants(ctx context.Context, roleID *int64) ([]Grant, error) {
	query := `SELECT ` + grantColumns + ` FROM role_menus ORDER BY role_id, menu_id`
	args := []any{}
	if roleID != nil {
		query = `SELECT ` + grantColumns + ` FROM role_menus WHERE role_id = $1 ORDER BY menu_id`
		args = append(args, *roleID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrants(rows)
}

// UpsertGrant creates the grant or updates its flags, keyed on the
// (role_id, menu_id) unique constraint.
func (r *Repository) UpsertGrant(ctx context.Context, grant Grant) (Grant, error) {
	var saved Grant
	err := r.pool.QueryRow(ctx, `
		INSERT INTO role_menus (role_id, menu_id, can_read, can_write, can_update, can_delete)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (role_id, menu_id) DO UPDATE
		SET can_read = EXCLUDED.can_read,
		    can_write = EXCLUDED.can_write,
		    can_update = EXCLUDED.can_update,
		    can_delete = EXCLUDED.can_delete,
		    updated_at = now()
		RETURNING `+grantColumns,
		grant.RoleID, grant.MenuID, grant.CanRead, grant.CanWrite, grant.CanUpdate, grant.CanDelete,
	).Scan(&saved.ID, &saved.RoleID, &saved.MenuID, &saved.CanRead, &saved.CanWrite, &saved.CanUpdate, &saved.CanDelete, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return Grant{}, err
	}
	return saved, nil
}

// ReplaceForRole deletes the role's grants and inserts the replacement set
// inside one transaction, so concurrent permission checks never see a
// zero-grant window.
func (r *Repository) ReplaceForRole(ctx context.Context, roleID int64, grants []Grant) ([]Grant, error) {
	var replaced []Grant
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_menus WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		for _, grant := range grants {
			var saved Grant
			err := tx.QueryRow(ctx, `
				INSERT INTO role_menus (role_id, menu_id, can_read, can_write, can_update, can_delete)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING `+grantColumns,
				roleID, grant.MenuID, grant.CanRead, grant.CanWrite, grant.CanUpdate, grant.CanDelete,
			).Scan(&saved.ID, &saved.RoleID, &saved.MenuID, &saved.CanRead, &saved.CanWrite, &saved.CanUpdate, &saved.CanDelete, &saved.CreatedAt, &saved.UpdatedAt)
			if err != nil {
				return err
			}
			replaced = append(replaced, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}

// DeleteGrant removes a grant by ID.
func (r *Repository) DeleteGrant(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM role_menus WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: grant %d", httpx.ErrNotFound, id)
	}
	return nil
}

// RoleExists reports whether the role exists.
func (r *Repository) RoleExists(ctx context.Context, roleID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists)
	return exists, err
}

// MenuExists reports whether the menu exists.
func (r *Repository) MenuExists(ctx context.Context, menuID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM menus WHERE id = $1)`, menuID).Scan(&exists)
	return exists, err
}

func scanGrants(rows pgx.Rows) ([]Grant, error) {
	var grants []Grant
	for rows.Next() {
		var grant Grant
		if err := rows.Scan(&grant.ID, &grant.RoleID, &grant.MenuID, &grant.CanRead, &grant.CanWrite, &grant.CanUpdate, &grant.CanDelete, &grant.CreatedAt, &grant.UpdatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

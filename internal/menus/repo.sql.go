package menus

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

const menuColumns = `id, name, path, icon, parent_id, order_index, created_at, updated_at`

// ListMenus returns the full menu forest ordered by orderIndex.
func (r *Repository) ListMenus(ctx context.Context) ([]Menu, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuColumns+` FROM menus ORDER BY order_index, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenus(rows)
}

// ListReadableMenus returns menus the role holds canRead on.
func (r *Repository) ListReadableMenus(ctx context.Context, roleID int64) ([]Menu, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.name, m.path, m.icon, m.parent_id, m.order_index, m.created_at, m.updated_at
		FROM menus m
		JOIN role_menus rm ON rm.menu_id = m.id
		WHERE rm.role_id = $1 AND rm.can_read
		ORDER BY m.order_index, m.id`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenus(rows)
}

// GetMenu fetches a menu by ID.
func (r *Repository) GetMenu(ctx context.Context, id int64) (Menu, error) {
	var menu Menu
	err := r.pool.QueryRow(ctx,
		`SELECT `+menuColumns+` FROM menus WHERE id = $1`, id,
	).Scan(&menu.ID, &menu.Name, &menu.Path, &menu.Icon, &menu.ParentID, &menu.OrderIndex, &menu.CreatedAt, &menu.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Menu{}, fmt.Errorf("%w: menu %d", httpx.ErrNotFound, id)
		}
		return Menu{}, err
	}
	return menu, nil
}

// CreateMenu inserts a new menu.
func (r *Repository) CreateMenu(ctx context.Context, menu Menu) (Menu, error) {
	var created Menu
	err := r.pool.QueryRow(ctx, `
		INSERT INTO menus (name, path, icon, parent_id, order_index)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+menuColumns,
		menu.Name, menu.Path, menu.Icon, menu.ParentID, menu.OrderIndex,
	).Scan(&created.ID, &created.Name, &created.Path, &created.Icon, &created.ParentID, &created.OrderIndex, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Menu{}, fmt.Errorf("%w: menu path already exists", httpx.ErrDuplicate)
		}
		return Menu{}, err
	}
	return created, nil
}

// UpdateMenu updates an existing menu.
func (r *Repository) UpdateMenu(ctx context.Context, menu Menu) (Menu, error) {
	var updated Menu
	err := r.pool.QueryRow(ctx, `
		UPDATE menus
		SET name = $2, path = $3, icon = $4, parent_id = $5, order_index = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+menuColumns,
		menu.ID, menu.Name, menu.Path, menu.Icon, menu.ParentID, menu.OrderIndex,
	).Scan(&updated.ID, &updated.Name, &updated.Path, &updated.Icon, &updated.ParentID, &updated.OrderIndex, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Menu{}, fmt.Errorf("%w: menu %d", httpx.ErrNotFound, menu.ID)
		}
		if isUniqueViolation(err) {
			return Menu{}, fmt.Errorf("%w: menu path already exists", httpx.ErrDuplicate)
		}
		return Menu{}, err
	}
	return updated, nil
}

// DeleteMenu removes a menu by ID.
func (r *Repository) DeleteMenu(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: menu %d", httpx.ErrNotFound, id)
	}
	return nil
}

func scanMenus(rows pgx.Rows) ([]Menu, error) {
	var menus []Menu
	for rows.Next() {
		var menu Menu
		if err := rows.Scan(&menu.ID, &menu.Name, &menu.Path, &menu.Icon, &menu.ParentID, &menu.OrderIndex, &menu.CreatedAt, &menu.UpdatedAt); err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return menus, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

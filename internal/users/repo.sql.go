package users

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

// ListUsers returns all users joined with their role name, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.email, u.username, u.password_hash, u.role_id, r.name, u.created_at, u.updated_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.RoleID, &user.RoleName, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.username, u.password_hash, u.role_id, r.name, u.created_at, u.updated_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.RoleID, &user.RoleName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
		}
		return User{}, err
	}
	return user, nil
}

// CreateUser inserts a new user.
func (r *Repository) CreateUser(ctx context.Context, user User) (User, error) {
	var created User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, username, password_hash, role_id, created_at, updated_at`,
		user.Email, user.Username, user.PasswordHash, user.RoleID,
	).Scan(&created.ID, &created.Email, &created.Username, &created.PasswordHash, &created.RoleID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: user already exists", httpx.ErrDuplicate)
		}
		return User{}, err
	}
	return created, nil
}

// UpdateUser updates an existing user.
func (r *Repository) UpdateUser(ctx context.Context, user User) (User, error) {
	var updated User
	err := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = $2, username = $3, password_hash = $4, role_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, email, username, password_hash, role_id, created_at, updated_at`,
		user.ID, user.Email, user.Username, user.PasswordHash, user.RoleID,
	).Scan(&updated.ID, &updated.Email, &updated.Username, &updated.PasswordHash, &updated.RoleID, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("%w: user %d", httpx.ErrNotFound, user.ID)
		}
		if isUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: user already exists", httpx.ErrDuplicate)
		}
		return User{}, err
	}
	return updated, nil
}

// DeleteUser removes a user by ID.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	return nil
}

// RoleExists reports whether the role exists.
func (r *Repository) RoleExists(ctx context.Context, roleID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists)
	return exists, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

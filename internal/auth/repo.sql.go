package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountQuery = `
	SELECT u.id, u.email, u.username, u.password_hash, u.role_id, r.name, u.created_at, u.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

// FindByEmail fetches the account for a login attempt.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	return r.scanOne(r.pool.QueryRow(ctx, accountQuery+` WHERE u.email = $1`, email))
}

// FindByID fetches the account behind a refresh token.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (Account, error) {
	return r.scanOne(r.pool.QueryRow(ctx, accountQuery+` WHERE u.id = $1`, id))
}

// FindRoleIDByName resolves a role name to its ID.
func (r *PGRepository) FindRoleIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: role %q", httpx.ErrNotFound, name)
		}
		return 0, err
	}
	return id, nil
}

// CreateAccount inserts a new account.
func (r *PGRepository) CreateAccount(ctx context.Context, email, username, passwordHash string, roleID int64) (Account, error) {
	var account Account
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, username, password_hash, role_id, created_at, updated_at`,
		email, username, passwordHash, roleID,
	).Scan(&account.ID, &account.Email, &account.Username, &account.PasswordHash, &account.RoleID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, fmt.Errorf("%w: email or username already taken", httpx.ErrDuplicate)
		}
		return Account{}, err
	}
	// Backfill the role name for the response payload.
	err = r.pool.QueryRow(ctx, `SELECT name FROM roles WHERE id = $1`, account.RoleID).Scan(&account.RoleName)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (r *PGRepository) scanOne(row pgx.Row) (Account, error) {
	var account Account
	err := row.Scan(&account.ID, &account.Email, &account.Username, &account.PasswordHash, &account.RoleID, &account.RoleName, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, httpx.ErrNotFound
		}
		return Account{}, err
	}
	return account, nil
}

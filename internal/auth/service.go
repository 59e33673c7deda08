package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// Repository defines the credential store access the auth flows need.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id int64) (Account, error)
	FindRoleIDByName(ctx context.Context, name string) (int64, error)
	CreateAccount(ctx context.Context, email, username, passwordHash string, roleID int64) (Account, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	defaultRole string
	bcryptCost  int
}

// NewService constructs a new Service. defaultRole is the role assigned to
// self-registered accounts.
func NewService(repo Repository, defaultRole string, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, defaultRole: defaultRole, bcryptCost: bcryptCost}
}

// Authenticate validates email/password credentials. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Account{}, httpx.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Account{}, httpx.ErrInvalidCredentials
	}
	return account, nil
}

// Register creates a self-service account carrying the default role.
func (s *Service) Register(ctx context.Context, email, username, password string) (Account, error) {
	roleID, err := s.repo.FindRoleIDByName(ctx, s.defaultRole)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Account{}, fmt.Errorf("auth: default role %q not seeded: %w", s.defaultRole, err)
		}
		return Account{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return Account{}, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.CreateAccount(ctx, email, username, string(hash), roleID)
}

// AccountByID loads the account behind a refresh token. A missing account
// invalidates the refresh flow.
func (s *Service) AccountByID(ctx context.Context, id int64) (Account, error) {
	return s.repo.FindByID(ctx, id)
}

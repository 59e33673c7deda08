package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
	RoleExists(ctx context.Context, roleID int64) (bool, error)
}

// Service handles user management business logic.
type Service struct {
	repo       RepositoryPort
	bcryptCost int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// ListUsers returns all users with their role names.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// CreateUser creates a user with an explicit role assignment. Duplicate
// email/username surfaces as a validation failure.
func (s *Service) CreateUser(ctx context.Context, email, username, password string, roleID int64) (User, error) {
	if err := s.checkRole(ctx, roleID); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		RoleID:       roleID,
	})
}

// UpdateUser updates account fields. An empty password leaves the stored
// hash untouched; a non-empty one is re-hashed.
func (s *Service) UpdateUser(ctx context.Context, id int64, email, username, password string, roleID int64) (User, error) {
	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err := s.checkRole(ctx, roleID); err != nil {
		return User{}, err
	}
	hash := current.PasswordHash
	if password != "" {
		newHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return User{}, fmt.Errorf("users: hash password: %w", err)
		}
		hash = string(newHash)
	}
	return s.repo.UpdateUser(ctx, User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		RoleID:       roleID,
	})
}

// DeleteUser removes a user by ID.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *Service) checkRole(ctx context.Context, roleID int64) error {
	ok, err := s.repo.RoleExists(ctx, roleID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: role %d does not exist", httpx.ErrValidation, roleID)
	}
	return nil
}

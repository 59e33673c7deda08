package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

type memoryRepo struct {
	accounts map[string]Account
	roles    map[string]int64
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		accounts: map[string]Account{},
		roles:    map[string]int64{"user": 2},
		nextID:   100,
	}
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (Account, error) {
	account, ok := r.accounts[email]
	if !ok {
		return Account{}, httpx.ErrNotFound
	}
	return account, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (Account, error) {
	for _, account := range r.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return Account{}, httpx.ErrNotFound
}

func (r *memoryRepo) FindRoleIDByName(ctx context.Context, name string) (int64, error) {
	id, ok := r.roles[name]
	if !ok {
		return 0, httpx.ErrNotFound
	}
	return id, nil
}

func (r *memoryRepo) CreateAccount(ctx context.Context, email, username, passwordHash string, roleID int64) (Account, error) {
	if _, exists := r.accounts[email]; exists {
		return Account{}, httpx.ErrDuplicate
	}
	r.nextID++
	account := Account{
		ID:           r.nextID,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		RoleID:       roleID,
		RoleName:     "user",
	}
	r.accounts[email] = account
	return account, nil
}

func seedAccount(t *testing.T, repo *memoryRepo, email, password string) Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo.nextID++
	account := Account{
		ID:           repo.nextID,
		Email:        email,
		Username:     "seeded",
		PasswordHash: string(hash),
		RoleID:       2,
		RoleName:     "user",
	}
	repo.accounts[email] = account
	return account
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newMemoryRepo()
	seeded := seedAccount(t, repo, "user@example.com", "correct-horse")
	svc := NewService(repo, "user", bcrypt.MinCost)

	account, err := svc.Authenticate(context.Background(), "user@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, account.ID)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	repo := newMemoryRepo()
	seedAccount(t, repo, "user@example.com", "correct-horse")
	svc := NewService(repo, "user", bcrypt.MinCost)
	ctx := context.Background()

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := svc.Authenticate(ctx, "nobody@example.com", "whatever")
	_, wrongErr := svc.Authenticate(ctx, "user@example.com", "wrong-password")

	require.ErrorIs(t, unknownErr, httpx.ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, httpx.ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, "user", bcrypt.MinCost)

	account, err := svc.Register(context.Background(), "new@example.com", "newbie", "strongpassword")
	require.NoError(t, err)
	require.Equal(t, int64(2), account.RoleID)
	require.NotEqual(t, "strongpassword", account.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("strongpassword")))
}

func TestRegisterFailsWithoutDefaultRole(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, "missing-role", bcrypt.MinCost)

	_, err := svc.Register(context.Background(), "new@example.com", "newbie", "strongpassword")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	seedAccount(t, repo, "taken@example.com", "whatever")
	svc := NewService(repo, "user", bcrypt.MinCost)

	_, err := svc.Register(context.Background(), "taken@example.com", "other", "strongpassword")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

type memoryRepo struct {
	users  map[int64]User
	roles  map[int64]bool
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users: map[int64]User{},
		roles: map[int64]bool{1: true, 2: true},
	}
}

func (r *memoryRepo) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *memoryRepo) GetUser(ctx context.Context, id int64) (User, error) {
	user, ok := r.users[id]
	if !ok {
		return User{}, fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	return user, nil
}

func (r *memoryRepo) CreateUser(ctx context.Context, user User) (User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return User{}, fmt.Errorf("%w: email taken", httpx.ErrDuplicate)
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepo) UpdateUser(ctx context.Context, user User) (User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return User{}, fmt.Errorf("%w: user %d", httpx.ErrNotFound, user.ID)
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepo) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	delete(r.users, id)
	return nil
}

func (r *memoryRepo) RoleExists(ctx context.Context, roleID int64) (bool, error) {
	return r.roles[roleID], nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := NewService(newMemoryRepo(), bcrypt.MinCost)

	user, err := svc.CreateUser(context.Background(), "a@b.c", "alice", "strongpassword", 1)
	require.NoError(t, err)
	require.NotEqual(t, "strongpassword", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("strongpassword")))
}

func TestCreateUserUnknownRole(t *testing.T) {
	svc := NewService(newMemoryRepo(), bcrypt.MinCost)

	_, err := svc.CreateUser(context.Background(), "a@b.c", "alice", "strongpassword", 404)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateUserKeepsHashWhenPasswordEmpty(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "a@b.c", "alice", "strongpassword", 1)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID, "new@b.c", "alice2", "", 2)
	require.NoError(t, err)
	require.Equal(t, user.PasswordHash, updated.PasswordHash)
	require.Equal(t, "new@b.c", updated.Email)
	require.Equal(t, int64(2), updated.RoleID)
}

func TestUpdateUserRehashesNewPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "a@b.c", "alice", "strongpassword", 1)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID, "a@b.c", "alice", "evenstronger", 1)
	require.NoError(t, err)
	require.NotEqual(t, user.PasswordHash, updated.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("evenstronger")))
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo(), bcrypt.MinCost)

	_, err := svc.UpdateUser(context.Background(), 404, "a@b.c", "alice", "", 1)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "a@b.c", "alice", "strongpassword", 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	require.ErrorIs(t, svc.DeleteUser(ctx, user.ID), httpx.ErrNotFound)
}

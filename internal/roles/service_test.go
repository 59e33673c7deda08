package roles

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

type memoryRepo struct {
	roles      map[int64]Role
	userCounts map[int64]int64
	nextID     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		roles:      map[int64]Role{},
		userCounts: map[int64]int64{},
	}
}

func (r *memoryRepo) ListRoles(ctx context.Context) ([]Role, error) {
	out := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		role.UserCount = r.userCounts[role.ID]
		out = append(out, role)
	}
	return out, nil
}

func (r *memoryRepo) GetRole(ctx context.Context, id int64) (Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return Role{}, fmt.Errorf("%w: role %d", httpx.ErrNotFound, id)
	}
	return role, nil
}

func (r *memoryRepo) CreateRole(ctx context.Context, name, description string) (Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return Role{}, fmt.Errorf("%w: role name already exists", httpx.ErrDuplicate)
		}
	}
	r.nextID++
	role := Role{ID: r.nextID, Name: name, Description: description, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.roles[role.ID] = role
	return role, nil
}

func (r *memoryRepo) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return Role{}, fmt.Errorf("%w: role %d", httpx.ErrNotFound, id)
	}
	role.Name = name
	role.Description = description
	role.UpdatedAt = time.Now()
	r.roles[id] = role
	return role, nil
}

func (r *memoryRepo) DeleteRole(ctx context.Context, id int64) error {
	if _, ok := r.roles[id]; !ok {
		return fmt.Errorf("%w: role %d", httpx.ErrNotFound, id)
	}
	delete(r.roles, id)
	return nil
}

func (r *memoryRepo) CountUsers(ctx context.Context, roleID int64) (int64, error) {
	return r.userCounts[roleID], nil
}

func TestCreateRoleTrimsInput(t *testing.T) {
	svc := NewService(newMemoryRepo())

	role, err := svc.CreateRole(context.Background(), "  editor  ", " Can edit content ")
	require.NoError(t, err)
	require.Equal(t, "editor", role.Name)
	require.Equal(t, "Can edit content", role.Description)
}

func TestCreateRoleDuplicateName(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateRole(ctx, "editor", "")
	require.NoError(t, err)

	_, err = svc.CreateRole(ctx, "editor", "")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestDeleteRoleRefusedWhileUsersAssigned(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "editor", "")
	require.NoError(t, err)
	repo.userCounts[role.ID] = 3

	err = svc.DeleteRole(ctx, role.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	_, err = repo.GetRole(ctx, role.ID)
	require.NoError(t, err)

	// Once the last user is reassigned, deletion goes through.
	repo.userCounts[role.ID] = 0
	require.NoError(t, svc.DeleteRole(ctx, role.ID))
	_, err = repo.GetRole(ctx, role.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteRoleNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())
	err := svc.DeleteRole(context.Background(), 404)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListRolesIncludesUserCounts(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "editor", "")
	require.NoError(t, err)
	repo.userCounts[role.ID] = 5

	listed, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, int64(5), listed[0].UserCount)
}

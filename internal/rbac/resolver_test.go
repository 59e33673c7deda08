package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/authn"
)

type memoryStore struct {
	roles  map[int64]Role
	menus  map[string]Menu
	grants map[[2]int64]Grant

	roleErr  error
	menuErr  error
	grantErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		roles:  map[int64]Role{},
		menus:  map[string]Menu{},
		grants: map[[2]int64]Grant{},
	}
}

func (s *memoryStore) GetRoleByID(ctx context.Context, id int64) (Role, error) {
	if s.roleErr != nil {
		return Role{}, s.roleErr
	}
	role, ok := s.roles[id]
	if !ok {
		return Role{}, ErrNotFound
	}
	return role, nil
}

func (s *memoryStore) GetMenuByPath(ctx context.Context, path string) (Menu, error) {
	if s.menuErr != nil {
		return Menu{}, s.menuErr
	}
	menu, ok := s.menus[path]
	if !ok {
		return Menu{}, ErrNotFound
	}
	return menu, nil
}

func (s *memoryStore) GetGrant(ctx context.Context, roleID, menuID int64) (Grant, error) {
	if s.grantErr != nil {
		return Grant{}, s.grantErr
	}
	grant, ok := s.grants[[2]int64{roleID, menuID}]
	if !ok {
		return Grant{}, ErrNotFound
	}
	return grant, nil
}

const superuserName = "Super admin"

func seededStore() *memoryStore {
	store := newMemoryStore()
	store.roles[1] = Role{ID: 1, Name: superuserName}
	store.roles[2] = Role{ID: 2, Name: "editor"}
	store.menus["/articles"] = Menu{ID: 10, Path: "/articles"}
	store.grants[[2]int64{2, 10}] = Grant{
		RoleID: 2, MenuID: 10,
		CanRead: true, CanWrite: true,
	}
	return store
}

func TestResolveSuperuserBypassesGrants(t *testing.T) {
	store := seededStore()
	resolver := NewResolver(store, superuserName)
	superuser := authn.Principal{UserID: 1, RoleID: 1}

	// No grant rows and even no menu row are needed for the superuser.
	for _, cap := range []Capability{CapabilityRead, CapabilityWrite, CapabilityUpdate, CapabilityDelete} {
		require.NoError(t, resolver.Resolve(context.Background(), superuser, "/articles", cap))
		require.NoError(t, resolver.Resolve(context.Background(), superuser, "/unconfigured", cap))
	}
}

func TestResolveGrantedAndMissingCapabilities(t *testing.T) {
	resolver := NewResolver(seededStore(), superuserName)
	editor := authn.Principal{UserID: 2, RoleID: 2}
	ctx := context.Background()

	require.NoError(t, resolver.Resolve(ctx, editor, "/articles", CapabilityRead))
	require.NoError(t, resolver.Resolve(ctx, editor, "/articles", CapabilityWrite))
	require.ErrorIs(t, resolver.Resolve(ctx, editor, "/articles", CapabilityUpdate), ErrDenied)
	require.ErrorIs(t, resolver.Resolve(ctx, editor, "/articles", CapabilityDelete), ErrDenied)
}

func TestResolveAbsentGrantDeniesEverything(t *testing.T) {
	store := seededStore()
	store.menus["/settings"] = Menu{ID: 11, Path: "/settings"}
	resolver := NewResolver(store, superuserName)
	editor := authn.Principal{UserID: 2, RoleID: 2}

	for _, cap := range []Capability{CapabilityRead, CapabilityWrite, CapabilityUpdate, CapabilityDelete} {
		require.ErrorIs(t, resolver.Resolve(context.Background(), editor, "/settings", cap), ErrDenied)
	}
}

func TestResolveUnconfiguredResource(t *testing.T) {
	resolver := NewResolver(seededStore(), superuserName)
	editor := authn.Principal{UserID: 2, RoleID: 2}

	err := resolver.Resolve(context.Background(), editor, "/nowhere", CapabilityRead)
	require.ErrorIs(t, err, ErrResourceNotConfigured)
}

func TestResolveUnknownRoleIsNotSuperuser(t *testing.T) {
	resolver := NewResolver(seededStore(), superuserName)
	ghost := authn.Principal{UserID: 99, RoleID: 99}

	err := resolver.Resolve(context.Background(), ghost, "/articles", CapabilityRead)
	require.ErrorIs(t, err, ErrDenied)
}

func TestResolveStoreErrorNeverAllows(t *testing.T) {
	store := seededStore()
	store.grantErr = errors.New("connection reset")
	resolver := NewResolver(store, superuserName)
	editor := authn.Principal{UserID: 2, RoleID: 2}

	err := resolver.Resolve(context.Background(), editor, "/articles", CapabilityRead)
	require.ErrorIs(t, err, ErrPermissionCheck)

	store = seededStore()
	store.roleErr = errors.New("connection reset")
	resolver = NewResolver(store, superuserName)
	err = resolver.Resolve(context.Background(), editor, "/articles", CapabilityRead)
	require.ErrorIs(t, err, ErrPermissionCheck)
}

func TestIsSuperuser(t *testing.T) {
	resolver := NewResolver(seededStore(), superuserName)
	ctx := context.Background()

	super, err := resolver.IsSuperuser(ctx, authn.Principal{RoleID: 1})
	require.NoError(t, err)
	require.True(t, super)

	super, err = resolver.IsSuperuser(ctx, authn.Principal{RoleID: 2})
	require.NoError(t, err)
	require.False(t, super)

	super, err = resolver.IsSuperuser(ctx, authn.Principal{RoleID: 404})
	require.NoError(t, err)
	require.False(t, super)
}

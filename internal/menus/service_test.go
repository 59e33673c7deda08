package menus

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

type memoryRepo struct {
	menus    map[int64]Menu
	readable map[int64][]int64
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		menus:    map[int64]Menu{},
		readable: map[int64][]int64{},
	}
}

func (r *memoryRepo) ListMenus(ctx context.Context) ([]Menu, error) {
	out := make([]Menu, 0, len(r.menus))
	for _, menu := range r.menus {
		out = append(out, menu)
	}
	return out, nil
}

func (r *memoryRepo) ListReadableMenus(ctx context.Context, roleID int64) ([]Menu, error) {
	out := []Menu{}
	for _, id := range r.readable[roleID] {
		if menu, ok := r.menus[id]; ok {
			out = append(out, menu)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetMenu(ctx context.Context, id int64) (Menu, error) {
	menu, ok := r.menus[id]
	if !ok {
		return Menu{}, fmt.Errorf("%w: menu %d", httpx.ErrNotFound, id)
	}
	return menu, nil
}

func (r *memoryRepo) CreateMenu(ctx context.Context, menu Menu) (Menu, error) {
	r.nextID++
	menu.ID = r.nextID
	r.menus[menu.ID] = menu
	return menu, nil
}

func (r *memoryRepo) UpdateMenu(ctx context.Context, menu Menu) (Menu, error) {
	if _, ok := r.menus[menu.ID]; !ok {
		return Menu{}, fmt.Errorf("%w: menu %d", httpx.ErrNotFound, menu.ID)
	}
	r.menus[menu.ID] = menu
	return menu, nil
}

func (r *memoryRepo) DeleteMenu(ctx context.Context, id int64) error {
	delete(r.menus, id)
	return nil
}

func ptr(v int64) *int64 { return &v }

func TestCreateMenuWithValidParent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	root, err := svc.CreateMenu(ctx, Menu{Name: "Settings", Path: "/settings"})
	require.NoError(t, err)

	child, err := svc.CreateMenu(ctx, Menu{Name: "Users", Path: "/settings/users", ParentID: ptr(root.ID)})
	require.NoError(t, err)
	require.Equal(t, root.ID, *child.ParentID)
}

func TestCreateMenuWithMissingParent(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.CreateMenu(context.Background(), Menu{Name: "Orphan", Path: "/orphan", ParentID: ptr(404)})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateMenuRejectsSelfParent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	menu, err := svc.CreateMenu(ctx, Menu{Name: "Reports", Path: "/reports"})
	require.NoError(t, err)

	menu.ParentID = ptr(menu.ID)
	_, err = svc.UpdateMenu(ctx, menu)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateMenuRejectsCycle(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.CreateMenu(ctx, Menu{Name: "A", Path: "/a"})
	require.NoError(t, err)
	b, err := svc.CreateMenu(ctx, Menu{Name: "B", Path: "/b", ParentID: ptr(a.ID)})
	require.NoError(t, err)
	c, err := svc.CreateMenu(ctx, Menu{Name: "C", Path: "/c", ParentID: ptr(b.ID)})
	require.NoError(t, err)

	// Reparenting A under its grandchild C would close a cycle.
	a.ParentID = ptr(c.ID)
	_, err = svc.UpdateMenu(ctx, a)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateMenuReparentWithinForest(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.CreateMenu(ctx, Menu{Name: "A", Path: "/a"})
	require.NoError(t, err)
	b, err := svc.CreateMenu(ctx, Menu{Name: "B", Path: "/b"})
	require.NoError(t, err)
	c, err := svc.CreateMenu(ctx, Menu{Name: "C", Path: "/c", ParentID: ptr(a.ID)})
	require.NoError(t, err)

	c.ParentID = ptr(b.ID)
	updated, err := svc.UpdateMenu(ctx, c)
	require.NoError(t, err)
	require.Equal(t, b.ID, *updated.ParentID)
}

func TestUpdateMenuNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.UpdateMenu(context.Background(), Menu{ID: 404, Name: "Ghost", Path: "/ghost"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

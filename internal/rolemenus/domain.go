// Package rolemenus manages grants: the CRUD capability set a role holds on
// a menu. Grants are unique per (role, menu) pair and upserted, never
// duplicated.
package rolemenus

import "time"

// Grant is one role-menu capability row. A missing row means the role has no
// capability on the menu.
type Grant struct {
	ID        int64
	RoleID    int64
	MenuID    int64
	CanRead   bool
	CanWrite  bool
	CanUpdate bool
	CanDelete bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

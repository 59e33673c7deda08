// Package menus manages the navigational hierarchy. A menu doubles as the
// unit of authorization: protected resources map to menus by path.
package menus

import "time"

// Menu is a node in the menu forest. ParentID, when set, must reference an
// existing menu and must not introduce a cycle.
type Menu struct {
	ID         int64
	Name       string
	Path       string
	Icon       *string
	ParentID   *int64
	OrderIndex int32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

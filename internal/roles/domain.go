// Package roles manages the role catalogue.
package roles

import "time"

// Role represents a high-level permission grouping. UserCount is the number
// of users currently assigned; a role with assigned users cannot be deleted.
type Role struct {
	ID          int64
	Name        string
	Description string
	UserCount   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Package auth implements the credential flows: login, self-service
// registration, refresh rotation and logout.
package auth

import "time"

// Account is the credential view of a user the auth flows need.
type Account struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	RoleID       int64
	RoleName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

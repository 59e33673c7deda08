// Package users manages user accounts and their role assignment.
package users

import "time"

// User represents an account. PasswordHash never leaves the service layer;
// response DTOs strip it.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	RoleID       int64
	RoleName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Package rbac resolves whether a principal may perform a capability on a
// path-keyed resource, and provides the chi middleware that enforces it.
package rbac

import "errors"

// Capability is one of the four CRUD-shaped permission flags grantable per
// role per menu. The HTTP mapping is a handler-author convention: Read for
// GET, Write for POST, Update for PUT/PATCH, Delete for DELETE.
type Capability int

const (
	CapabilityRead Capability = iota
	CapabilityWrite
	CapabilityUpdate
	CapabilityDelete
)

// String returns the grant flag name for the capability.
func (c Capability) String() string {
	switch c {
	case CapabilityRead:
		return "canRead"
	case CapabilityWrite:
		return "canWrite"
	case CapabilityUpdate:
		return "canUpdate"
	case CapabilityDelete:
		return "canDelete"
	}
	return "unknown"
}

// Role is the read model the resolver needs: identity plus the name compared
// against the superuser sentinel.
type Role struct {
	ID   int64
	Name string
}

// Menu is the unit of authorization, looked up by its unique path.
type Menu struct {
	ID   int64
	Path string
}

// Grant holds the capability set a role has on a menu. A missing grant row
// means all four flags are false.
type Grant struct {
	RoleID    int64
	MenuID    int64
	CanRead   bool
	CanWrite  bool
	CanUpdate bool
	CanDelete bool
}

// Allows reports whether the grant covers the capability.
func (g Grant) Allows(c Capability) bool {
	switch c {
	case CapabilityRead:
		return g.CanRead
	case CapabilityWrite:
		return g.CanWrite
	case CapabilityUpdate:
		return g.CanUpdate
	case CapabilityDelete:
		return g.CanDelete
	}
	return false
}

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("rbac: not found")

// Resolution failures. Denied and ResourceNotConfigured are expected outcomes;
// PermissionCheck covers unexpected store errors and must never silently allow.
var (
	ErrDenied                = errors.New("rbac: denied")
	ErrResourceNotConfigured = errors.New("rbac: resource not configured")
	ErrPermissionCheck       = errors.New("rbac: permission check failed")
)

// IsDenied reports whether err is a capability denial.
func IsDenied(err error) bool { return errors.Is(err, ErrDenied) }

// IsResourceNotConfigured reports whether err means no menu is configured for
// the requested path.
func IsResourceNotConfigured(err error) bool { return errors.Is(err, ErrResourceNotConfigured) }

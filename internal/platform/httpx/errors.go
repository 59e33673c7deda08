package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Handlers wrap these with context and
// Error maps them back onto transport status codes.
var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("insufficient permissions")
	ErrResourceNotConfigured = errors.New("resource not configured")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrDuplicate             = errors.New("duplicate entry")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

// Error maps a domain error to an error envelope. Anything outside the
// taxonomy becomes an opaque 500; the cause is for server-side logs only.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, "Invalid credentials", "Invalid credentials")
	case errors.Is(err, ErrUnauthenticated):
		Fail(w, http.StatusUnauthorized, "Unauthenticated", err.Error())
	case errors.Is(err, ErrForbidden):
		Fail(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrResourceNotConfigured):
		Fail(w, http.StatusNotFound, "ResourceNotConfigured", err.Error())
	case errors.Is(err, ErrNotFound):
		Fail(w, http.StatusNotFound, "NotFound", err.Error())
	case errors.Is(err, ErrValidation):
		Fail(w, http.StatusBadRequest, "ValidationError", err.Error())
	case errors.Is(err, ErrDuplicate):
		Fail(w, http.StatusBadRequest, "ValidationError", err.Error())
	default:
		Fail(w, http.StatusInternalServerError, "Internal", "internal server error")
	}
}

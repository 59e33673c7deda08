package rbac

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/accesshub/accesshub/internal/authn"
	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// Middleware wires authorization helpers for HTTP handlers. It composes the
// authentication guard with the permission resolver; guard failures propagate
// as-is (401), resolution failures map to 403/404/500 envelopes.
type Middleware struct {
	Guard    authn.Guard
	Resolver *Resolver
	Logger   *slog.Logger
}

// RequireCapability gates the wrapped handler on the principal holding the
// capability for the resource path. The 403 message names the missing
// capability and path for operator diagnosis.
func (m Middleware) RequireCapability(resourcePath string, capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Guard.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := authn.PrincipalFromContext(r.Context())
			if !ok {
				httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "authentication required")
				return
			}
			if err := m.Resolver.Resolve(r.Context(), principal, resourcePath, capability); err != nil {
				m.deny(w, r, err, resourcePath, capability)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// RequireSuperuser gates the wrapped handler on the principal's role name
// equaling the superuser sentinel, skipping the menu/grant lookup entirely.
// Used for coarse, resource-independent admin operations.
func (m Middleware) RequireSuperuser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Guard.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := authn.PrincipalFromContext(r.Context())
			if !ok {
				httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "authentication required")
				return
			}
			super, err := m.Resolver.IsSuperuser(r.Context(), principal)
			if err != nil {
				m.logError(r, err)
				httpx.Fail(w, http.StatusInternalServerError, "PermissionCheckFailed", "permission check failed")
				return
			}
			if !super {
				httpx.Fail(w, http.StatusForbidden, "Forbidden", "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, err error, resourcePath string, capability Capability) {
	switch {
	case errors.Is(err, ErrDenied):
		httpx.Fail(w, http.StatusForbidden, "Forbidden",
			fmt.Sprintf("insufficient permissions: required %s on %s", capability, resourcePath))
	case errors.Is(err, ErrResourceNotConfigured):
		httpx.Fail(w, http.StatusNotFound, "ResourceNotConfigured",
			fmt.Sprintf("no menu configured for %s", resourcePath))
	default:
		m.logError(r, err)
		httpx.Fail(w, http.StatusInternalServerError, "PermissionCheckFailed", "permission check failed")
	}
}

func (m Middleware) logError(r *http.Request, err error) {
	if m.Logger != nil {
		m.Logger.Error("permission check failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
}

package authn

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/accesshub/accesshub/internal/platform/httpx"
)

// TokenVerifier verifies an access token and yields the principal it encodes.
type TokenVerifier interface {
	VerifyAccess(token string) (Principal, error)
}

// Guard is the innermost authentication primitive. Higher-level authorization
// middleware builds on it.
type Guard struct {
	Verifier TokenVerifier
	Logger   *slog.Logger
}

// Middleware extracts and verifies the bearer token, failing with 401 when it
// is missing or invalid. The verification failure reason is logged but never
// surfaced to the caller.
func (g Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "authentication required")
			return
		}
		principal, err := g.Verifier.VerifyAccess(token)
		if err != nil {
			if g.Logger != nil {
				g.Logger.Debug("access token rejected", slog.Any("error", err))
			}
			httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

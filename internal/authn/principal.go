// Package authn authenticates requests: it turns a bearer token into a
// Principal and makes it available to downstream handlers via the context.
package authn

import "context"

// Principal is the authenticated identity for the duration of one request.
// It is reconstructed from the verified token on every request and never
// persisted.
type Principal struct {
	UserID int64
	Email  string
	RoleID int64
}

type principalContextKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

package auth

import "context"

// AuthorityUser is the single authority granted to every authenticated user.
const AuthorityUser = "ROLE_USER"

// Principal is the authenticated identity bound to a request.
type Principal struct {
	UserID    int64
	Email     string
	Username  string
	Authority string
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal bound to ctx, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

package domain

import "context"

type ctxKey int

const principalCtxKey ctxKey = iota

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	return p, ok
}

// IdentityFrom returns the authenticated identity in ctx, or nil when the
// request was never authenticated.
func IdentityFrom(ctx context.Context) *Identity {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return nil
	}
	id := p.Identity
	return &id
}

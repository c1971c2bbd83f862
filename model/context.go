package model

import "context"

// NoPrincipal is the sentinel principal id for calls made before any
// identity exists (signup, login). Store-side row-level-security policies
// must treat it as "no access", never as "full access".
const NoPrincipal int64 = -1

// Principal is the identity on whose behalf a call executes. It is immutable
// after construction and safe for concurrent reads.
type Principal struct {
	UserID int64
	Email  string
}

type principalKey struct{}

// WithPrincipal stores an authenticated principal in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in the context, or nil if the
// request is unauthenticated.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// PrincipalID returns the context principal's user id, or NoPrincipal when
// none is present.
func PrincipalID(ctx context.Context) int64 {
	if p := PrincipalFrom(ctx); p != nil {
		return p.UserID
	}
	return NoPrincipal
}

// Package principal carries the authenticated identity through request
// context. The request gate stores a Principal after a successful token
// check; handlers retrieve it. A Principal lives only for the request
// that resolved it.
package principal

import "context"

// Principal is the authenticated identity for the current request,
// resolved from the live account record rather than token claims.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

// NewContext stores a Principal in the context.
func NewContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext retrieves the Principal from the context.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// MustFromContext retrieves the Principal from the context.
// Panics if absent. Use in handlers mounted behind the auth gate.
func MustFromContext(ctx context.Context) Principal {
	p, ok := FromContext(ctx)
	if !ok {
		panic("principal: not found in context")
	}
	return p
}

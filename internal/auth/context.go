// Package auth provides the identity gate, the session that carries the
// identity provider's assertion, and the provider integration itself.
package auth

import (
	"context"

	"github.com/budgetgate/budgetgate/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for storing the admitted Identity.
	identityContextKey contextKey = "identity"
)

// ContextWithIdentity adds an admitted Identity to the context.
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns nil if not present.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}

// EmailFromContext is a convenience function to get the admitted email.
// Returns empty string if no identity is present.
func EmailFromContext(ctx context.Context) string {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return ""
	}
	return identity.Email
}

// Package middleware provides shared request-context helpers for the gateway.
//
// This package lives in pkg/ (not internal/) so sibling services that embed
// the gateway's handler can read the resolved Principal in their own
// middleware.
package middleware

import (
	"context"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

type contextKey string

const principalKey contextKey = "principal"

// SetPrincipal stores the resolved Principal in the context.
// Called by the authentication middleware after a provider succeeds.
func SetPrincipal(ctx context.Context, p *contracts.Principal) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal retrieves the resolved Principal from the context.
// Returns nil when the request never passed the authentication middleware —
// for the authorizers that is an ordering bug, not an anonymous caller.
func GetPrincipal(ctx context.Context) *contracts.Principal {
	if v, ok := ctx.Value(principalKey).(*contracts.Principal); ok {
		return v
	}
	return nil
}

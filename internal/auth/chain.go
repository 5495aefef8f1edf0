// Package auth provides the authentication provider chain for the gateway.
//
// Two strategies ship, tried in a fixed order:
//   - BearerProvider — access-token validation via the auth service
//   - GuestProvider — guest-UUID lookup via the user service
//
// Bearer is deliberately first: when a request carries both credentials it
// is judged by the stronger one, and a present-but-invalid bearer token
// rejects without falling through to the guest strategy.
package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// ProviderChain implements contracts.AuthProviderChain.
// It walks registered providers in order until one returns a Principal.
//
// Thread-safe; in practice the chain is assembled once at composition time
// and only read afterwards.
type ProviderChain struct {
	mu        sync.RWMutex
	providers []contracts.AuthProvider
}

// NewProviderChain creates an empty auth provider chain.
func NewProviderChain() *ProviderChain {
	return &ProviderChain{
		providers: make([]contracts.AuthProvider, 0),
	}
}

// RegisterProvider adds a provider to the end of the chain.
// Providers are tried in registration order.
func (c *ProviderChain) RegisterProvider(provider contracts.AuthProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = append(c.providers, provider)
	log.Info().
		Str("provider", provider.Name()).
		Msg("🔑 Auth provider registered")
}

// Authenticate walks the chain of providers in order.
//
// Contract:
//   - (*Principal, nil) → authenticated, stop walking
//   - (nil, nil) → this provider's credential is absent, try next
//   - (nil, error) → auth attempted but failed, reject immediately
func (c *ProviderChain) Authenticate(ctx context.Context, r *http.Request) (*contracts.Principal, error) {
	c.mu.RLock()
	providers := make([]contracts.AuthProvider, len(c.providers))
	copy(providers, c.providers)
	c.mu.RUnlock()

	for _, p := range providers {
		principal, err := p.Authenticate(ctx, r)
		if err != nil {
			log.Debug().
				Str("provider", p.Name()).
				Err(err).
				Msg("Auth provider rejected request")
			return nil, err
		}
		if principal != nil {
			log.Debug().
				Str("provider", p.Name()).
				Int64("sub", principal.Subject).
				Str("type", string(principal.Type)).
				Msg("Request authenticated")
			return principal, nil
		}
		// (nil, nil) — credential absent, try next
	}

	// No provider matched — no credential on the request at all.
	return nil, nil
}

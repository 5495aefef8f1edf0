package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/shortify/shortify/gateway/internal/clients"
	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// BearerProvider resolves a caller from an Authorization: Bearer token by
// asking the auth service who the token belongs to. The gateway never
// verifies token signatures itself.
type BearerProvider struct {
	auth *clients.AuthClient
}

// NewBearerProvider creates the bearer-token auth provider.
func NewBearerProvider(auth *clients.AuthClient) *BearerProvider {
	return &BearerProvider{auth: auth}
}

func (p *BearerProvider) Name() string { return "bearer" }

// Authenticate validates the bearer token against the auth service.
// Returns (nil, nil) when no bearer token is present (let the guest
// strategy try). Any failure once a token was present — an unauthorized
// response, a backend error, an unreachable backend — collapses into one
// 401: an unverifiable credential is an invalid credential.
func (p *BearerProvider) Authenticate(ctx context.Context, r *http.Request) (*contracts.Principal, error) {
	token := extractBearerToken(r)
	if token == "" {
		return nil, nil
	}

	principal, err := p.auth.GetCurrentUser(ctx, token)
	if err != nil {
		return nil, contracts.Unauthenticated("Invalid or expired access token")
	}
	return principal, nil
}

func extractBearerToken(r *http.Request) string {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || scheme != "Bearer" {
		return ""
	}
	return token
}

package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// AuthClient talks to the authentication service. It is the only client
// that ever sees raw credentials: the access token on validation, the
// refresh token on rotation.
type AuthClient struct {
	*client
}

// NewAuthClient builds the auth-service client from validated configuration.
func NewAuthClient(baseURL, secret string) (*AuthClient, error) {
	c, err := newClient("auth", baseURL, secret)
	if err != nil {
		return nil, err
	}
	return &AuthClient{client: c}, nil
}

// RegisterGuest creates a new anonymous guest user record.
func (c *AuthClient) RegisterGuest(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/register-guest",
		body:     struct{}{},
		fallback: "Failed to register guest",
	}, &out)
	return out, err
}

// RegisterUser registers a credentialed user. When guestUUID is set the
// backend migrates that guest's links onto the new account.
func (c *AuthClient) RegisterUser(ctx context.Context, body json.RawMessage, guestUUID string) (json.RawMessage, error) {
	h := http.Header{}
	if guestUUID != "" {
		h.Set(contracts.HeaderGuestUUID, guestUUID)
	}
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/register-user",
		body:     body,
		header:   h,
		fallback: "Failed to register user",
	}, &out)
	return out, err
}

// Login exchanges credentials for a token pair.
func (c *AuthClient) Login(ctx context.Context, body json.RawMessage, guestUUID string) (*contracts.LoginResponse, error) {
	h := http.Header{}
	if guestUUID != "" {
		h.Set(contracts.HeaderGuestUUID, guestUUID)
	}
	var out contracts.LoginResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     body,
		header:   h,
		fallback: "Failed to login",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshTokens rotates the refresh token and returns a fresh pair.
func (c *AuthClient) RefreshTokens(ctx context.Context, refreshToken string) (*contracts.TokenPair, error) {
	var out contracts.TokenPair
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/refresh",
		body:     contracts.RefreshTokenRequest{RefreshToken: refreshToken},
		fallback: "Failed to refresh tokens",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the session behind the given refresh token.
func (c *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/logout",
		body:     contracts.LogoutRequest{RefreshToken: refreshToken},
		fallback: "Failed to logout",
	}, nil)
}

// LogoutAll revokes every session of the token's user.
func (c *AuthClient) LogoutAll(ctx context.Context, refreshToken string) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/logout-all",
		body:     contracts.LogoutRequest{RefreshToken: refreshToken},
		fallback: "Failed to logout from all devices",
	}, nil)
}

// GetCurrentUser asks the auth service who the access token belongs to.
// This is the bearer strategy's "who is this token" operation; no identity
// headers exist yet, so only the trust header and the token itself go out.
func (c *AuthClient) GetCurrentUser(ctx context.Context, accessToken string) (*contracts.Principal, error) {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+accessToken)
	var out contracts.Principal
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auth/me",
		header:   h,
		fallback: "Failed to get current user",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetActiveSessions lists the user's active refresh sessions.
func (c *AuthClient) GetActiveSessions(ctx context.Context, userID int64, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/auth/user/%d/sessions", userID),
		identity: &identity,
		fallback: "Failed to get active sessions",
	}, &out)
	return out, err
}

// RevokeSession revokes a single session by its token id.
func (c *AuthClient) RevokeSession(ctx context.Context, userID, jti int64, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/auth/user/%d/sessions/%d", userID, jti),
		identity: &identity,
		fallback: "Failed to revoke session",
	}, &out)
	return out, err
}

// DeleteUser removes the user's auth record entirely.
func (c *AuthClient) DeleteUser(ctx context.Context, userID int64, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/auth/user/%d", userID),
		identity: &identity,
		fallback: "Failed to delete user",
	}, &out)
	return out, err
}

package contracts

import "encoding/json"

// Wire types shared with the three backend services. The gateway decodes
// only the fields it makes decisions on (token rotation, guest type checks,
// link ownership); everything else is carried as raw JSON and passed through
// to the public client unchanged.

// ── Auth service ────────────────────────────────────────────

// TokenPair is the access/refresh pair issued by the auth service.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse is the auth service's login payload. The user object is
// opaque to the gateway; the tokens are split so the refresh token can move
// into the HTTP-only cookie.
type LoginResponse struct {
	User   json.RawMessage `json:"user"`
	Tokens TokenPair       `json:"tokens"`
}

// RefreshTokenRequest carries the rotating refresh token to the auth service.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest identifies the session(s) to revoke.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Message is the one-line response body for logout-style operations.
type Message struct {
	Message string `json:"message"`
}

// ── User service ────────────────────────────────────────────

// User is the subset of the user record the gateway inspects: the guest
// lookup checks Type, and the identity headers carry ID and UUID.
type User struct {
	ID   int64    `json:"id"`
	Type UserType `json:"type"`
	UUID string   `json:"uuid,omitempty"`
}

// ── Link service ────────────────────────────────────────────

// Link is the subset of the link record the gateway inspects for the stats
// ownership check. LinkStats stays opaque.
type Link struct {
	UserID    int64           `json:"userId"`
	ShortLink string          `json:"shortLink"`
	BaseLink  string          `json:"baseLink"`
	LinkStats json.RawMessage `json:"linkStats,omitempty"`
}

// RedirectResponse resolves a short link to its destination URL.
type RedirectResponse struct {
	URL string `json:"url"`
}

// Package contracts — Authentication types for the gateway's identity layer.
//
// These types form the boundary between authentication (the provider chain)
// and authorization (the ownership and admin guards). No handler ever knows
// whether the caller was resolved from a bearer token or a guest UUID.
package contracts

import (
	"context"
	"net/http"
	"strconv"
)

// ── Trusted headers ─────────────────────────────────────────

// Headers the gateway writes. HeaderGatewaySecret goes on every outbound
// call; the identity headers are written onto the inbound request by the
// authentication middleware — its sole sanctioned writer — and forwarded to
// backends from there. Inbound values from the public client are always
// overwritten, never merged.
const (
	HeaderGatewaySecret = "x-api-gateway-secret"
	HeaderUserID        = "x-user-id"
	HeaderUserType      = "x-user-type"
	HeaderUserUUID      = "x-user-uuid"
	HeaderGuestUUID     = "x-guest-uuid"
)

// ── Principal ───────────────────────────────────────────────

// UserType discriminates the three principal kinds. Mutually exclusive;
// determines which authorization rule applies.
type UserType string

const (
	TypeAdmin UserType = "Admin"
	TypeUser  UserType = "User"
	TypeGuest UserType = "Guest"
)

// Principal is the resolved caller identity for one request.
//
// Built once per request by the authentication middleware, stored in the
// request context, immutable afterwards, never persisted.
type Principal struct {
	// Subject is the numeric user id from the backend's token payload or
	// guest record ("sub" claim).
	Subject int64 `json:"sub"`

	// Type is Admin, User or Guest.
	Type UserType `json:"type"`

	// GuestUUID is the guest's external UUID identifier. Set only when
	// Type is Guest; independent of Subject.
	GuestUUID string `json:"uuid,omitempty"`
}

// IsAdmin reports whether the principal bypasses ownership checks.
func (p *Principal) IsAdmin() bool { return p.Type == TypeAdmin }

// Owns reports whether the principal owns the resource named by locator.
//
// The same endpoint shape serves numeric user ids and UUID-identified
// guests, so two representations of "self" must be handled:
//   - User: the locator must parse as a number and equal Subject.
//   - Guest: numeric compare against Subject first; a non-numeric locator
//     is compared as a string to GuestUUID instead.
//
// Admin bypass is the guard's concern, not Owns's.
func (p *Principal) Owns(locator string) bool {
	id, err := strconv.ParseInt(locator, 10, 64)
	switch p.Type {
	case TypeUser:
		return err == nil && id == p.Subject
	case TypeGuest:
		if err == nil {
			return id == p.Subject
		}
		return locator == p.GuestUUID
	default:
		return false
	}
}

// IdentityHeaders is the fixed trusted-header set derived from a Principal
// and forwarded to backends on authenticated calls.
type IdentityHeaders struct {
	UserID   string
	UserType string
	UserUUID string
}

// Identity derives the trusted header set from the principal.
func (p *Principal) Identity() IdentityHeaders {
	return IdentityHeaders{
		UserID:   strconv.FormatInt(p.Subject, 10),
		UserType: string(p.Type),
		UserUUID: p.GuestUUID,
	}
}

// Apply writes the identity headers into h, overwriting any prior values.
// The UUID header is removed when the principal carries none.
func (ih IdentityHeaders) Apply(h http.Header) {
	h.Set(HeaderUserID, ih.UserID)
	h.Set(HeaderUserType, ih.UserType)
	if ih.UserUUID != "" {
		h.Set(HeaderUserUUID, ih.UserUUID)
	} else {
		h.Del(HeaderUserUUID)
	}
}

// IdentityFromHeader reads the trusted header set back off a request that
// already passed the authentication middleware.
func IdentityFromHeader(h http.Header) IdentityHeaders {
	return IdentityHeaders{
		UserID:   h.Get(HeaderUserID),
		UserType: h.Get(HeaderUserType),
		UserUUID: h.Get(HeaderUserUUID),
	}
}

// ── AuthProvider ────────────────────────────────────────────

// AuthProvider authenticates an HTTP request and returns a Principal.
// Each provider implements one credential strategy (bearer token, guest UUID).
//
// The chain pattern:
//   - Return (*Principal, nil) → authenticated, stop chain
//   - Return (nil, nil) → this provider's credential is absent, try next
//   - Return (nil, error) → authentication was attempted but failed, reject
type AuthProvider interface {
	// Name returns the provider identifier (e.g. "bearer", "guest").
	Name() string

	// Authenticate inspects the request and returns a Principal.
	Authenticate(ctx context.Context, r *http.Request) (*Principal, error)
}

// AuthProviderChain tries providers in priority order until one returns a
// Principal. Used by the authentication middleware; the order is fixed at
// composition time.
type AuthProviderChain interface {
	// Authenticate walks the chain of providers in order.
	// Returns the first Principal, or (nil, nil) if no credential was present.
	Authenticate(ctx context.Context, r *http.Request) (*Principal, error)

	// RegisterProvider adds a provider to the end of the chain.
	RegisterProvider(provider AuthProvider)
}

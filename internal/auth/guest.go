package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/shortify/shortify/gateway/internal/clients"
	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// GuestProvider resolves an anonymous caller from the x-guest-uuid header
// by looking the guest's user record up in the user service.
type GuestProvider struct {
	users *clients.UsersClient
}

// NewGuestProvider creates the guest-UUID auth provider.
func NewGuestProvider(users *clients.UsersClient) *GuestProvider {
	return &GuestProvider{users: users}
}

func (p *GuestProvider) Name() string { return "guest" }

// Authenticate resolves the guest UUID through the user service's public
// lookup (no identity headers exist yet, so none are sent). Returns
// (nil, nil) when the header is absent. A malformed UUID, a missing record
// or a record that is not Guest-typed all reject the same way, revealing
// nothing about which check failed.
func (p *GuestProvider) Authenticate(ctx context.Context, r *http.Request) (*contracts.Principal, error) {
	guestUUID := r.Header.Get(contracts.HeaderGuestUUID)
	if guestUUID == "" {
		return nil, nil
	}

	// Syntactically invalid UUIDs are rejected without a backend round trip.
	if _, err := uuid.Parse(guestUUID); err != nil {
		return nil, contracts.Unauthenticated("Invalid guest UUID")
	}

	user, err := p.users.FindByUUIDPublic(ctx, guestUUID)
	if err != nil || user == nil || user.Type != contracts.TypeGuest {
		return nil, contracts.Unauthenticated("Invalid guest UUID")
	}

	return &contracts.Principal{
		Subject:   user.ID,
		Type:      contracts.TypeGuest,
		GuestUUID: user.UUID,
	}, nil
}

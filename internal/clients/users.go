package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// UsersClient talks to the user-profile service.
type UsersClient struct {
	*client
}

// NewUsersClient builds the user-service client from validated configuration.
func NewUsersClient(baseURL, secret string) (*UsersClient, error) {
	c, err := newClient("users", baseURL, secret)
	if err != nil {
		return nil, err
	}
	return &UsersClient{client: c}, nil
}

// Create adds a user record.
func (c *UsersClient) Create(ctx context.Context, body json.RawMessage, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/users",
		body:     body,
		identity: &identity,
		fallback: "Failed to create user",
	}, &out)
	return out, err
}

// FindAll lists every user. Admin-only at the gateway surface.
func (c *UsersClient) FindAll(ctx context.Context, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/users",
		identity: &identity,
		fallback: "Failed to get users",
	}, &out)
	return out, err
}

// FindByID looks a user up by numeric id. A backend 404 is a typed absence:
// the record not existing is an expected outcome of a lookup, not an error.
func (c *UsersClient) FindByID(ctx context.Context, id int64, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	found, err := c.doLookup(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/users/id/%d", id),
		identity: &identity,
		fallback: "Failed to get user by id",
	}, &out)
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

// FindByUUID looks a user up by external UUID. 404 → typed absence.
func (c *UsersClient) FindByUUID(ctx context.Context, uuid string, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	found, err := c.doLookup(ctx, call{
		method:   http.MethodGet,
		path:     "/users/uuid/" + url.PathEscape(uuid),
		identity: &identity,
		fallback: "Failed to get user by UUID",
	}, &out)
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

// FindByUUIDPublic is the unauthenticated variant of FindByUUID used by the
// guest strategy, before any identity exists. Only the trust header goes
// out. 404 → typed absence.
func (c *UsersClient) FindByUUIDPublic(ctx context.Context, uuid string) (*contracts.User, error) {
	var out contracts.User
	found, err := c.doLookup(ctx, call{
		method:   http.MethodGet,
		path:     "/users/uuid/" + url.PathEscape(uuid),
		fallback: "Failed to get guest user by UUID " + uuid,
	}, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// UpdateByID patches a user record by numeric id.
func (c *UsersClient) UpdateByID(ctx context.Context, id int64, body json.RawMessage, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/users/id/%d", id),
		body:     body,
		identity: &identity,
		fallback: "Failed to update user",
	}, &out)
	return out, err
}

// UpdateByUUID patches a user record by external UUID.
func (c *UsersClient) UpdateByUUID(ctx context.Context, uuid string, body json.RawMessage, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodPatch,
		path:     "/users/uuid/" + url.PathEscape(uuid),
		body:     body,
		identity: &identity,
		fallback: "Failed to update user by UUID",
	}, &out)
	return out, err
}

// DeleteByID removes a user record by numeric id.
func (c *UsersClient) DeleteByID(ctx context.Context, id int64, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/users/id/%d", id),
		identity: &identity,
		fallback: "Failed to delete user",
	}, &out)
	return out, err
}

// DeleteByUUID removes a user record by external UUID.
func (c *UsersClient) DeleteByUUID(ctx context.Context, uuid string, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/users/uuid/" + url.PathEscape(uuid),
		identity: &identity,
		fallback: "Failed to delete user by UUID",
	}, &out)
	return out, err
}

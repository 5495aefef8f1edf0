package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// LinksClient talks to the link/URL-shortening service.
type LinksClient struct {
	*client
}

// NewLinksClient builds the link-service client from validated configuration.
func NewLinksClient(baseURL, secret string) (*LinksClient, error) {
	c, err := newClient("links", baseURL, secret)
	if err != nil {
		return nil, err
	}
	return &LinksClient{client: c}, nil
}

// GetRedirectURL resolves a short link for the public redirect endpoint.
// The redirect lookup is the one call that carries no gateway headers at
// all: only the visitor's user agent and origin IP, which the link service
// records for click stats.
func (c *LinksClient) GetRedirectURL(ctx context.Context, shortLink, userAgent, ip string) (string, error) {
	h := http.Header{}
	if userAgent != "" {
		h.Set("user-agent", userAgent)
	}
	if ip != "" {
		h.Set("x-forwarded-for", ip)
	}
	var out contracts.RedirectResponse
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/links/redirect/" + url.PathEscape(shortLink),
		header:   h,
		noSecret: true,
		fallback: "Failed to get redirect URL",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// GetUserLinks returns one page of a user's links.
func (c *LinksClient) GetUserLinks(ctx context.Context, userID int64, page, limit int, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/links/user/%d", userID),
		query:    q,
		identity: &identity,
		fallback: "Failed to get user links",
	}, &out)
	return out, err
}

// CreateLink shortens a URL on behalf of the given user.
func (c *LinksClient) CreateLink(ctx context.Context, userID int64, body json.RawMessage, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/links/user/%d", userID),
		body:     body,
		identity: &identity,
		fallback: "Failed to create link",
	}, &out)
	return out, err
}

// GetLinkByShortLink fetches a link record with its stats. 404 → typed
// absence; every other failure takes the normalized-error path.
func (c *LinksClient) GetLinkByShortLink(ctx context.Context, shortLink string, identity contracts.IdentityHeaders) (*contracts.Link, error) {
	var out contracts.Link
	found, err := c.doLookup(ctx, call{
		method:   http.MethodGet,
		path:     "/links/id/" + url.PathEscape(shortLink),
		identity: &identity,
		fallback: "Failed to get link info",
	}, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// DeleteLink removes a short link.
func (c *LinksClient) DeleteLink(ctx context.Context, shortLink string, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/links/" + url.PathEscape(shortLink),
		identity: &identity,
		fallback: "Failed to delete link",
	}, &out)
	return out, err
}

// GetLinkStats returns the click statistics of a short link.
func (c *LinksClient) GetLinkStats(ctx context.Context, shortLink string, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/links/" + url.PathEscape(shortLink) + "/stats",
		identity: &identity,
		fallback: "Failed to get link stats",
	}, &out)
	return out, err
}

// GetQRCode returns the link's QR code as a PNG byte blob.
func (c *LinksClient) GetQRCode(ctx context.Context, shortLink string, identity contracts.IdentityHeaders) ([]byte, error) {
	body, _, err := c.doRaw(ctx, call{
		method:   http.MethodGet,
		path:     "/links/" + url.PathEscape(shortLink) + "/qr",
		identity: &identity,
		fallback: "Failed to generate QR code",
	})
	return body, err
}

// GetUserLinksStats returns aggregate stats across a user's links.
func (c *LinksClient) GetUserLinksStats(ctx context.Context, userID int64, identity contracts.IdentityHeaders) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/links/user/%d/stats", userID),
		identity: &identity,
		fallback: "Failed to get user links stats",
	}, &out)
	return out, err
}

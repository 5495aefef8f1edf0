// Package clients implements the gateway's outbound HTTP layer: one generic
// proxy client plus a thin specialization per backend service (auth, users,
// links).
//
// Every call leaving this package carries the gateway trust header, and
// every failure coming back is normalized into a contracts.APIError before
// it reaches a handler. Transport error shapes stop here.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// defaultTimeout bounds every outbound call so a hung backend cannot stall
// a request indefinitely. The inbound request context still cancels earlier
// when the client disconnects.
const defaultTimeout = 15 * time.Second

// client is the generic request-forwarding primitive shared by the three
// backend clients.
type client struct {
	name    string
	baseURL string
	secret  string
	httpc   *http.Client
}

// newClient validates the two required configuration values. A missing base
// URL or gateway secret is a fatal configuration error: the client (and the
// process) must not start without them.
func newClient(name, baseURL, secret string) (*client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%s client: backend base URL is empty", name)
	}
	if secret == "" {
		return nil, fmt.Errorf("%s client: gateway secret is empty", name)
	}
	return &client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}, nil
}

// call describes one outbound request.
type call struct {
	method string
	path   string
	query  url.Values

	// body is JSON-marshaled when non-nil. json.RawMessage forwards a
	// client payload unchanged.
	body any

	// identity forwards the caller's trusted identity headers. Nil on
	// unauthenticated calls (token validation, public guest lookup).
	identity *contracts.IdentityHeaders

	// header carries call-specific extras (Authorization, x-guest-uuid,
	// user-agent).
	header http.Header

	// noSecret drops the gateway trust header. Only the public redirect
	// lookup uses it.
	noSecret bool

	// fallback is the caller-supplied message used when the backend's
	// response carries none, and on transport failure.
	fallback string
}

// do performs one outbound call and decodes a 2xx response into out (when
// out is non-nil). Non-2xx responses and transport failures are returned as
// *contracts.APIError. No retries: retry policy, if ever wanted, belongs to
// a transport collaborator, not this contract.
func (c *client) do(ctx context.Context, cl call, out any) error {
	body, status, err := c.roundTrip(ctx, cl)
	if err != nil {
		return err
	}
	if status == http.StatusNoContent || out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		log.Error().
			Str("backend", c.name).
			Str("path", cl.path).
			Err(err).
			Msg("undecodable backend response")
		return contracts.Unavailable(cl.fallback)
	}
	return nil
}

// doLookup is do for lookup-style operations, where a remote 404 means a
// well-defined absence rather than a failure. Returns found=false, nil
// error on 404; every other non-2xx still fails normalized.
func (c *client) doLookup(ctx context.Context, cl call, out any) (bool, error) {
	err := c.do(ctx, cl, out)
	if err != nil {
		if apiErr, ok := err.(*contracts.APIError); ok && apiErr.Status == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// doRaw performs one outbound call and returns the undecoded 2xx body with
// its content type (binary passthrough, e.g. QR PNGs).
func (c *client) doRaw(ctx context.Context, cl call) ([]byte, string, error) {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logTransportFailure(cl, err)
		return nil, "", contracts.Unavailable(cl.fallback)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logTransportFailure(cl, err)
		return nil, "", contracts.Unavailable(cl.fallback)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", contracts.BackendError(resp.StatusCode, remoteMessage(body, cl.fallback))
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *client) roundTrip(ctx context.Context, cl call) ([]byte, int, error) {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// No remote response at all: network, DNS, timeout.
		c.logTransportFailure(cl, err)
		return nil, 0, contracts.Unavailable(cl.fallback)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logTransportFailure(cl, err)
		return nil, 0, contracts.Unavailable(cl.fallback)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, contracts.BackendError(resp.StatusCode, remoteMessage(body, cl.fallback))
	}
	return body, resp.StatusCode, nil
}

func (c *client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("%s client: marshal request body: %w", c.name, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%s client: build request: %w", c.name, err)
	}

	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !cl.noSecret {
		req.Header.Set(contracts.HeaderGatewaySecret, c.secret)
	}
	if cl.identity != nil {
		cl.identity.Apply(req.Header)
	}
	for k, vals := range cl.header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

func (c *client) logTransportFailure(cl call, err error) {
	log.Warn().
		Str("backend", c.name).
		Str("method", cl.method).
		Str("path", cl.path).
		Err(err).
		Msg("backend call failed without a response")
}

// remoteMessage extracts a human-readable message from a backend error
// body, falling back to the caller-supplied default.
func remoteMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fallback
}

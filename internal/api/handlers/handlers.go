// Package handlers implements the gateway's HTTP handlers. Every handler is
// a thin forward to one backend-client method; all identity decisions were
// already made by the middleware chain by the time a handler runs.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shortify/shortify/gateway/internal/clients"
	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// Handlers holds all handler dependencies. Clients are built once at
// startup from validated configuration and shared across requests.
type Handlers struct {
	Auth  *clients.AuthClient
	Users *clients.UsersClient
	Links *clients.LinksClient

	// CookieSecure marks the refresh cookie Secure outside local dev.
	CookieSecure bool
}

// New creates a Handlers instance over the three backend clients.
func New(auth *clients.AuthClient, users *clients.UsersClient, links *clients.LinksClient, cookieSecure bool) *Handlers {
	return &Handlers{
		Auth:         auth,
		Users:        users,
		Links:        links,
		CookieSecure: cookieSecure,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondAPIError renders the uniform rejection shape {statusCode, message}.
func respondAPIError(w http.ResponseWriter, err error) {
	apiErr := contracts.AsAPIError(err)
	respondJSON(w, apiErr.Status, apiErr)
}

// readBody drains the request body for unchanged forwarding. The gateway
// never validates payload shapes; the backends own their DTOs.
func readBody(r *http.Request) json.RawMessage {
	if r.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil || len(raw) == 0 {
		return nil
	}
	return raw
}

// pathInt parses a numeric path parameter. Non-numeric values reject 400
// before any backend is called.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, &contracts.APIError{
			Status:  http.StatusBadRequest,
			Message: "Validation failed (numeric string is expected)",
		})
		return 0, false
	}
	return v, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

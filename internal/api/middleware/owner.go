package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shortify/shortify/gateway/pkg/contracts"
	pkgmw "github.com/shortify/shortify/gateway/pkg/middleware"
)

// LocatorSource names where an ownership locator is read from.
type LocatorSource string

const (
	SourcePath  LocatorSource = "path"
	SourceQuery LocatorSource = "query"
	SourceBody  LocatorSource = "body"
)

// OwnedResource declares, statically at route registration, which incoming
// field identifies the resource's owner. Routes without a declaration carry
// no ownership restriction: any authenticated principal may proceed.
type OwnedResource struct {
	// Param is the name of the path parameter, query parameter or
	// top-level body field.
	Param string

	// Source is where Param is read from.
	Source LocatorSource
}

// RequireOwner returns middleware enforcing that the resolved Principal
// owns the resource named by the declared locator. Must run after the
// Authenticator; a missing Principal here is an ordering bug and rejects.
// Admins bypass ownership entirely.
func RequireOwner(res OwnedResource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := pkgmw.GetPrincipal(r.Context())
			if principal == nil {
				RespondError(w, contracts.Forbidden("User not authenticated"))
				return
			}
			if principal.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			locator, ok := resolveLocator(r, res)
			if !ok || locator == "" {
				RespondError(w, contracts.Forbidden("Resource identifier not found"))
				return
			}
			if !principal.Owns(locator) {
				RespondError(w, contracts.Forbidden("You do not have permission to access this resource"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveLocator(r *http.Request, res OwnedResource) (string, bool) {
	switch res.Source {
	case SourcePath:
		v := chi.URLParam(r, res.Param)
		return v, v != ""
	case SourceQuery:
		v := r.URL.Query().Get(res.Param)
		return v, v != ""
	case SourceBody:
		return bodyField(r, res.Param)
	default:
		return "", false
	}
}

// bodyField extracts a top-level field from a JSON body, then restores the
// body so the handler can still forward it downstream.
func bodyField(r *http.Request, name string) (string, bool) {
	if r.Body == nil {
		return "", false
	}
	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return "", false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", false
	}
	v, ok := fields[name]
	if !ok {
		return "", false
	}

	// Numbers keep their literal form so "42" compares against a numeric
	// subject id; strings are unquoted.
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

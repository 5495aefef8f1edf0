// Package middleware implements the gateway's HTTP middleware: request
// logging, tracing, the authentication resolver, and the ownership and
// admin authorizers.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/shortify/shortify/gateway/pkg/contracts"
	pkgmw "github.com/shortify/shortify/gateway/pkg/middleware"
)

// Authenticator is the middleware that resolves the caller's identity
// through the provider chain and stores the resulting Principal in context.
//
// It is also the sole writer of the trusted identity headers: whatever the
// public client sent in x-user-id / x-user-type / x-user-uuid is discarded
// and rewritten from the resolved Principal, so nothing downstream can be
// spoofed from outside.
type Authenticator struct {
	chain contracts.AuthProviderChain
}

// NewAuthenticator creates the authentication middleware over the given
// provider chain.
func NewAuthenticator(chain contracts.AuthProviderChain) *Authenticator {
	return &Authenticator{chain: chain}
}

// Handler returns the middleware. Requests with no usable credential are
// rejected 401 before the wrapped handler runs.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Strip any client-supplied identity headers up front; they are
		// set again below, from the Principal only.
		r.Header.Del(contracts.HeaderUserID)
		r.Header.Del(contracts.HeaderUserType)
		r.Header.Del(contracts.HeaderUserUUID)

		principal, err := a.chain.Authenticate(r.Context(), r)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
			RespondError(w, contracts.AsAPIError(err))
			return
		}
		if principal == nil {
			RespondError(w, contracts.Unauthenticated("Access token or guest UUID is required"))
			return
		}

		principal.Identity().Apply(r.Header)
		ctx := pkgmw.SetPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RespondError writes the uniform rejection body: a numeric status and a
// human-readable message, nothing else.
func RespondError(w http.ResponseWriter, apiErr *contracts.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(apiErr)
}

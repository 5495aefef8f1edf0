package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shortify/shortify/gateway/internal/api/middleware"
	"github.com/shortify/shortify/gateway/pkg/contracts"
	pkgmw "github.com/shortify/shortify/gateway/pkg/middleware"
)

type stubChain struct {
	principal *contracts.Principal
	err       error
}

func (s *stubChain) Authenticate(ctx context.Context, r *http.Request) (*contracts.Principal, error) {
	return s.principal, s.err
}

func (s *stubChain) RegisterProvider(p contracts.AuthProvider) {}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) contracts.APIError {
	t.Helper()
	var apiErr contracts.APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("rejection body %q is not an API error: %v", rec.Body.String(), err)
	}
	return apiErr
}

func TestAuthenticator_RewritesIdentityHeaders(t *testing.T) {
	chain := &stubChain{principal: &contracts.Principal{Subject: 42, Type: contracts.TypeUser}}

	var seenIdentity contracts.IdentityHeaders
	var seenPrincipal *contracts.Principal
	h := middleware.NewAuthenticator(chain).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenIdentity = contracts.IdentityFromHeader(r.Header)
		seenPrincipal = pkgmw.GetPrincipal(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	// A hostile client pre-fills the trusted headers.
	r.Header.Set(contracts.HeaderUserID, "999")
	r.Header.Set(contracts.HeaderUserType, "Admin")
	r.Header.Set(contracts.HeaderUserUUID, "spoofed")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if seenIdentity.UserID != "42" || seenIdentity.UserType != "User" || seenIdentity.UserUUID != "" {
		t.Errorf("identity after middleware = %+v, want it rewritten from the principal", seenIdentity)
	}
	if seenPrincipal == nil || seenPrincipal.Subject != 42 {
		t.Errorf("principal in context = %+v", seenPrincipal)
	}
}

func TestAuthenticator_NoCredential(t *testing.T) {
	h := middleware.NewAuthenticator(&stubChain{}).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler ran without a resolved principal")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	apiErr := decodeAPIError(t, rec)
	if apiErr.Message != "Access token or guest UUID is required" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestAuthenticator_ChainRejection(t *testing.T) {
	chain := &stubChain{err: contracts.Unauthenticated("Invalid or expired access token")}
	h := middleware.NewAuthenticator(chain).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler ran after a chain rejection")
	}))

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set(contracts.HeaderUserID, "999")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	apiErr := decodeAPIError(t, rec)
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid or expired access token" {
		t.Errorf("body = %+v", apiErr)
	}
}

func TestAuthenticator_UnknownErrorIs500(t *testing.T) {
	chain := &stubChain{err: context.DeadlineExceeded}
	h := middleware.NewAuthenticator(chain).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler ran after a chain rejection")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	apiErr := decodeAPIError(t, rec)
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "Internal server error" {
		t.Errorf("body = %+v, want untyped errors normalized to 500", apiErr)
	}
}

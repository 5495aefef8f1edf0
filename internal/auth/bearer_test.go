package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shortify/shortify/gateway/internal/auth"
	"github.com/shortify/shortify/gateway/internal/clients"
	"github.com/shortify/shortify/gateway/pkg/contracts"
)

func bearerProviderWithBackend(t *testing.T, handler http.HandlerFunc) (*auth.BearerProvider, *httptest.Server) {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)
	c, err := clients.NewAuthClient(backend.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}
	return auth.NewBearerProvider(c), backend
}

func TestBearer_ValidToken(t *testing.T) {
	var gotAuth string
	p, _ := bearerProviderWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(contracts.Principal{Subject: 42, Type: contracts.TypeUser})
	})

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Authorization", "Bearer tok-abc")

	principal, err := p.Authenticate(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	if principal == nil || principal.Subject != 42 || principal.Type != contracts.TypeUser {
		t.Errorf("principal = %+v", principal)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("token forwarded as %q", gotAuth)
	}
}

func TestBearer_NoToken(t *testing.T) {
	p, _ := bearerProviderWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called without a bearer token")
	})

	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no header", func(r *http.Request) {}},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwdw==") }},
		{"bare token", func(r *http.Request) { r.Header.Set("Authorization", "tok-abc") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/users", nil)
			tc.setup(r)
			principal, err := p.Authenticate(context.Background(), r)
			if principal != nil || err != nil {
				t.Errorf("got (%+v, %v), want (nil, nil) so the next strategy can try", principal, err)
			}
		})
	}
}

func TestBearer_RejectedToken(t *testing.T) {
	p, _ := bearerProviderWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "jwt expired"})
	})

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Authorization", "Bearer tok-expired")

	principal, err := p.Authenticate(context.Background(), r)
	if principal != nil {
		t.Errorf("principal = %+v, want nil", principal)
	}
	apiErr := contracts.AsAPIError(err)
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid or expired access token" {
		t.Errorf("error = %+v, want a uniform 401", apiErr)
	}
}

func TestBearer_UnreachableBackend(t *testing.T) {
	p, backend := bearerProviderWithBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	backend.Close()

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Authorization", "Bearer tok-abc")

	// An unverifiable token rejects the same way an invalid one does.
	_, err := p.Authenticate(context.Background(), r)
	apiErr := contracts.AsAPIError(err)
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid or expired access token" {
		t.Errorf("error = %+v, want a uniform 401", apiErr)
	}
}

package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shortify/shortify/gateway/internal/api"
	"github.com/shortify/shortify/gateway/internal/api/handlers"
	"github.com/shortify/shortify/gateway/internal/api/middleware"
	"github.com/shortify/shortify/gateway/internal/auth"
	"github.com/shortify/shortify/gateway/internal/clients"
	"github.com/shortify/shortify/gateway/internal/config"
	"github.com/shortify/shortify/gateway/pkg/contracts"
)

const (
	accessToken = "tok-valid"
	guestUUID   = "0b84f1a2-3c58-4f6e-9a51-2f6c153b1d10"
)

// newGateway assembles a full router over one fake backend that plays all
// three services, pre-seeded with a user (id 42) and a guest (id 7).
func newGateway(t *testing.T, extra http.HandlerFunc) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "jwt malformed"})
			return
		}
		json.NewEncoder(w).Encode(contracts.Principal{Subject: 42, Type: contracts.TypeUser})
	})
	mux.HandleFunc("GET /users/uuid/"+guestUUID, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(contracts.User{ID: 7, Type: contracts.TypeGuest, UUID: guestUUID})
	})
	if extra != nil {
		mux.HandleFunc("/", extra)
	}
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	authClient, err := clients.NewAuthClient(backend.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}
	usersClient, err := clients.NewUsersClient(backend.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}
	linksClient, err := clients.NewLinksClient(backend.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}

	chain := auth.NewProviderChain()
	chain.RegisterProvider(auth.NewBearerProvider(authClient))
	chain.RegisterProvider(auth.NewGuestProvider(usersClient))

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"*"}}}
	h := handlers.New(authClient, usersClient, linksClient, false)
	return api.NewRouter(cfg, h, middleware.NewAuthenticator(chain))
}

func TestRouter_Health(t *testing.T) {
	gw := newGateway(t, nil)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestRouter_GuardedRouteWithoutCredential(t *testing.T) {
	gw := newGateway(t, nil)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/id/42", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var apiErr contracts.APIError
	json.Unmarshal(rec.Body.Bytes(), &apiErr)
	if apiErr.Message != "Access token or guest UUID is required" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestRouter_BearerThenOwnership(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/id/42" {
			json.NewEncoder(w).Encode(map[string]any{"id": 42})
			return
		}
		t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
	})

	// Own record: 200.
	r := httptest.NewRequest(http.MethodGet, "/users/id/42", nil)
	r.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("own record: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Someone else's record: the ownership guard rejects before any
	// backend call.
	r = httptest.NewRequest(http.MethodGet, "/users/id/43", nil)
	r.Header.Set("Authorization", "Bearer "+accessToken)
	rec = httptest.NewRecorder()
	gw.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign record: status = %d, want 403", rec.Code)
	}
}

func TestRouter_InvalidBearerDoesNotFallThroughToGuest(t *testing.T) {
	gw := newGateway(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer tok-bogus")
	r.Header.Set(contracts.HeaderGuestUUID, guestUUID)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var apiErr contracts.APIError
	json.Unmarshal(rec.Body.Bytes(), &apiErr)
	if apiErr.Message != "Invalid or expired access token" {
		t.Errorf("message = %q, want the bearer rejection, not a guest resolution", apiErr.Message)
	}
}

func TestRouter_GuestReachesOwnResources(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/links/user/7" {
			if got := contracts.IdentityFromHeader(r.Header); got.UserID != "7" || got.UserType != "Guest" || got.UserUUID != guestUUID {
				t.Errorf("identity at backend = %+v", got)
			}
			json.NewEncoder(w).Encode(map[string]any{"links": []any{}, "total": 0})
			return
		}
		t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
	})

	r := httptest.NewRequest(http.MethodGet, "/links/user/7", nil)
	r.Header.Set(contracts.HeaderGuestUUID, guestUUID)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_MeRoundTrip(t *testing.T) {
	gw := newGateway(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got contracts.Principal
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Subject != 42 || got.Type != contracts.TypeUser {
		t.Errorf("principal = %+v", got)
	}
}

// Package api assembles the gateway's HTTP surface: global middleware,
// the public endpoints, and the guarded route table with its per-route
// authorizer chains.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shortify/shortify/gateway/internal/api/handlers"
	"github.com/shortify/shortify/gateway/internal/api/middleware"
	"github.com/shortify/shortify/gateway/internal/config"
	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// NewRouter creates the HTTP router with all gateway routes. Each guarded
// route declares its authorizer explicitly — the ownership locator is a
// static field on the registration, not runtime metadata.
func NewRouter(cfg *config.Config, h *handlers.Handlers, authn *middleware.Authenticator) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", contracts.HeaderGuestUUID},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health & public redirect
	r.Get("/health", healthHandler)
	r.Get("/l/{shortLink}", h.Redirect)

	// Auth
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register-guest", h.RegisterGuest)
		r.Post("/register-user", h.RegisterUser)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
		r.Post("/logout-all", h.LogoutAll)

		r.Group(func(r chi.Router) {
			r.Use(authn.Handler)
			r.Get("/me", h.Me)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOwner(middleware.OwnedResource{Param: "userId", Source: middleware.SourcePath}))
				r.Get("/user/{userId}/sessions", h.GetActiveSessions)
				r.Delete("/user/{userId}/sessions/{jti}", h.RevokeSession)
			})
		})
	})

	// Users
	r.Route("/users", func(r chi.Router) {
		r.Use(authn.Handler)

		r.With(middleware.RequireAdmin).Get("/", h.FindAllUsers)

		owner := func(param string) func(http.Handler) http.Handler {
			return middleware.RequireOwner(middleware.OwnedResource{Param: param, Source: middleware.SourcePath})
		}
		r.With(owner("id")).Get("/id/{id}", h.FindUserByID)
		r.With(owner("id")).Patch("/id/{id}", h.UpdateUserByID)
		r.With(owner("id")).Delete("/id/{id}", h.DeleteUserByID)
		r.With(owner("uuid")).Get("/uuid/{uuid}", h.FindUserByUUID)
		r.With(owner("uuid")).Patch("/uuid/{uuid}", h.UpdateUserByUUID)
		r.With(owner("uuid")).Delete("/uuid/{uuid}", h.DeleteUserByUUID)
	})

	// Links
	r.Route("/links", func(r chi.Router) {
		r.Use(authn.Handler)

		ownerByUserID := middleware.RequireOwner(middleware.OwnedResource{Param: "userId", Source: middleware.SourcePath})
		r.With(ownerByUserID).Get("/user/{userId}", h.GetUserLinks)
		r.With(ownerByUserID).Get("/user/{userId}/stats", h.GetUserLinksStats)

		// Ownership decided inside the handler (against the link record
		// or by the link service) rather than by a route locator.
		r.Post("/user/{userId}", h.CreateLink)
		r.Get("/{shortLink}/stats", h.GetLinkStats)
		r.Get("/{shortLink}/qr", h.GetQRCode)
		r.Delete("/{shortLink}", h.DeleteLink)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "gateway",
	})
}

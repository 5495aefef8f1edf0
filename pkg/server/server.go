// Package server provides the public entry point for initializing the
// gateway.
//
// This package exists in pkg/ (not internal/) so deployments that embed the
// gateway behind extra middleware can compose it themselves:
//
//	srv, err := server.New()
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shortify/shortify/gateway/internal/api"
	"github.com/shortify/shortify/gateway/internal/api/handlers"
	"github.com/shortify/shortify/gateway/internal/api/middleware"
	"github.com/shortify/shortify/gateway/internal/auth"
	"github.com/shortify/shortify/gateway/internal/clients"
	"github.com/shortify/shortify/gateway/internal/config"
	"github.com/shortify/shortify/gateway/internal/telemetry"
)

// Server holds the initialized gateway.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Config is the loaded gateway configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes the gateway from environment configuration. Construction
// is strict: a missing backend URL or gateway secret fails here, before the
// process ever listens.
func New() (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig initializes the gateway with an explicit configuration.
func NewWithConfig(cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	// Backend clients: built once, passed by handle into the route table.
	authClient, err := clients.NewAuthClient(cfg.Backends.AuthURL, cfg.Secret)
	if err != nil {
		return nil, err
	}
	usersClient, err := clients.NewUsersClient(cfg.Backends.UserURL, cfg.Secret)
	if err != nil {
		return nil, err
	}
	linksClient, err := clients.NewLinksClient(cfg.Backends.LinkURL, cfg.Secret)
	if err != nil {
		return nil, err
	}

	// Resolver chain: bearer first, then guest. Fixed order.
	chain := auth.NewProviderChain()
	chain.RegisterProvider(auth.NewBearerProvider(authClient))
	chain.RegisterProvider(auth.NewGuestProvider(usersClient))

	h := handlers.New(authClient, usersClient, linksClient, cfg.Cookie.Secure)
	router := api.NewRouter(cfg, h, middleware.NewAuthenticator(chain))

	return &Server{
		Handler:      router,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

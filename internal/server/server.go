package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/medspa/internal/auth"
	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/services"
	"github.com/desertthunder/medspa/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, metrics, panic recovery, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own several routes.
// Implementations include the image proxy and the server-rendered pages.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the mux patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options are the collaborators a [Server] is built from.
type Options struct {
	Config    *shared.Config
	Listings  services.ListingService
	Photos    services.PhotoService
	Favorites *favorites.Provider
	Sessions  SessionStore
	Exchanger auth.Exchanger // defaults to the oauth2 config built from Config.Auth
	Pages     Handler        // server-rendered pages, optional
	Logger    *log.Logger
}

// Server is the medspa HTTP service.
type Server struct {
	router  *BasicRouter
	metrics *Metrics
	addr    string
	logger  *log.Logger
}

// New wires routes and middleware. It fails only on configuration that makes sessions impossible.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: server config is required", shared.ErrMissingConfig)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	cfg := opts.Config
	codec, err := auth.NewSessionCodec(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	secure := strings.HasPrefix(cfg.Server.BaseURL, "https://")
	logger := shared.WithLogger(opts.Logger, "component", "server")
	metrics := NewMetrics()
	sessions := NewSessions(opts.Sessions, codec, cfg.Session.CookieName, secure, logger)

	s := &Server{
		router:  NewBasicRouter(),
		metrics: metrics,
		addr:    cfg.Server.Addr(),
		logger:  logger,
	}

	s.router.Use(RequestLogger(logger), metrics.Middleware, sessions.Middleware, Recoverer(logger))

	s.router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	s.router.Handle(http.MethodGet, "/metrics", metrics.Handler())

	s.router.Handler(NewPhotoProxy(opts.Photos, cfg.Places.MaxWidth, metrics, logger))

	api := NewAPIHandler(opts.Listings, opts.Favorites, logger)
	s.router.Handle(http.MethodGet, "/api/listings", http.HandlerFunc(api.ListListings))
	s.router.Handle(http.MethodGet, "/api/listings/{id}", http.HandlerFunc(api.GetListing))
	s.router.Handle(http.MethodGet, "/api/favorites", RequireSession(http.HandlerFunc(api.ListFavorites)))
	s.router.Handle(http.MethodPost, "/api/favorites", RequireSession(http.HandlerFunc(api.AddFavorite)))
	s.router.Handle(http.MethodDelete, "/api/favorites/{id}", RequireSession(http.HandlerFunc(api.RemoveFavorite)))

	routes := auth.RoutesFromConfig(cfg.Auth)
	oauth := NewOAuthHandler(NewOAuthConfig(cfg.Auth), opts.Exchanger, routes, sessions, metrics, secure, logger)
	s.router.Handle(http.MethodGet, "/login", http.HandlerFunc(oauth.Login))
	s.router.Handle(http.MethodGet, "/auth/callback", http.HandlerFunc(oauth.Callback))
	s.router.Handle(http.MethodPost, "/logout", http.HandlerFunc(oauth.Logout))

	if opts.Pages != nil {
		s.router.Handler(opts.Pages)
	}

	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

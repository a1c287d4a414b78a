package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/repositories"
	"github.com/desertthunder/medspa/internal/server"
	"github.com/desertthunder/medspa/internal/services"
	"github.com/desertthunder/medspa/internal/shared"
	"github.com/desertthunder/medspa/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP service until interrupted.
//
// Sessions and each signed-in user's favorites live in the SQLite database.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		r.config.Server.Port = port
	}

	listings := r.listings
	if listings == nil {
		r.logger.Warn("backend not configured, listing endpoints will fail")
		listings = services.Unavailable{
			Err: fmt.Errorf("%w: backend url and anon_key are required", shared.ErrMissingCredentials),
		}
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	sessions := repositories.NewSessionRepository(db)
	if n, err := sessions.DeleteExpired(ctx, time.Now()); err != nil {
		r.logger.Warn("failed to prune expired sessions", "error", err)
	} else if n > 0 {
		r.logger.Info("pruned expired sessions", "count", n)
	}

	provider := favorites.NewProvider(repositories.NewKVRepository(db), r.logger)

	secure := strings.HasPrefix(r.config.Server.BaseURL, "https://")
	pages, err := web.New(listings, provider, secure, shared.WithLogger(r.logger, "component", "web"))
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}

	srv, err := server.New(server.Options{
		Config:    r.config,
		Listings:  listings,
		Photos:    r.photos,
		Favorites: provider,
		Sessions:  sessions,
		Pages:     pages,
		Logger:    r.logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting medspa", "url", r.config.Server.BaseURL)
	return srv.Start(ctx)
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
	"github.com/desertthunder/medspa/internal/tasks"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the saved listings.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.favoritesStore(ctx)
	if err != nil {
		return err
	}

	saved := store.List()
	if cmd.Bool("json") {
		if saved == nil {
			saved = []models.Favorite{}
		}
		return r.writeJSON(saved, cmd.Bool("pretty"))
	}

	if len(saved) == 0 {
		return r.writePlain("No favorites yet. Save one with 'medspa favorites add <id>'\n")
	}

	for _, fav := range saved {
		line := fmt.Sprintf("%-12s %s", fav.ID, fav.Name)
		if loc := (models.Listing{City: fav.City, State: fav.State}).Location(); loc != "" {
			line += " (" + loc + ")"
		}
		r.writePlain("%s  %s\n", line, shared.FormatRating(fav.Rating, fav.ReviewCount))
	}
	return nil
}

// FavoritesAdd fetches a listing and saves its snapshot.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: listing id is required", shared.ErrMissingArgument)
	}
	if err := r.requireListings(); err != nil {
		return err
	}

	store, err := r.favoritesStore(ctx)
	if err != nil {
		return err
	}

	listing, err := r.listings.GetListing(ctx, id)
	if err != nil {
		return err
	}

	added, err := store.Add(ctx, models.NewFavorite(*listing))
	if err != nil {
		return err
	}
	if !added {
		return r.writePlain("%s is already saved\n", listing.Name)
	}

	r.logger.Info("favorite added", "id", listing.ID)
	return r.writePlain("✓ Saved %s\n", listing.Name)
}

// FavoritesRemove removes a saved listing.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: listing id is required", shared.ErrMissingArgument)
	}

	store, err := r.favoritesStore(ctx)
	if err != nil {
		return err
	}

	removed, err := store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return r.writePlain("%s is not saved\n", id)
	}

	r.logger.Info("favorite removed", "id", id)
	return r.writePlain("✓ Removed %s\n", id)
}

// FavoritesExport writes the saved listings to a file.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	store, err := r.favoritesStore(ctx)
	if err != nil {
		return err
	}

	path, err := r.tasks.Export(store, nil, tasks.ExportOpts{
		Format:  cmd.String("format"),
		Path:    cmd.String("output"),
		BaseURL: r.config.Server.BaseURL,
	})
	if err != nil {
		return err
	}

	return r.writePlain("✓ Exported %d favorites to %s\n", store.Len(), path)
}

// FavoritesRefresh re-fetches saved listings and updates stale snapshots.
func (r *Runner) FavoritesRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireListings(); err != nil {
		return err
	}

	store, err := r.favoritesStore(ctx)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadFavorites:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.UpdateFavorite:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.tasks.Refresh(ctx, store, progressCh, tasks.RefreshOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Refresh Complete!")
	r.writePlain("Saved: %d\n", result.Total)
	r.writePlain("Updated: %d\n", result.Updated)
	r.writePlain("Unchanged: %d\n", result.Unchanged)

	if len(result.Missing) > 0 {
		r.writePlain("\nNo longer listed (kept):\n")
		for _, id := range result.Missing {
			r.writePlain("  - %s\n", id)
		}
	}
	if len(result.Failed) > 0 {
		r.writePlain("\nFailed to refresh %d:\n", len(result.Failed))
		for _, f := range result.Failed {
			r.writePlain("  - %s: %v\n", f.ID, f.Err)
		}
	}
	return nil
}

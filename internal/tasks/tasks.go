package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/formatter"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/services"
	"github.com/desertthunder/medspa/internal/shared"
	"golang.org/x/time/rate"
)

// RefreshOpts contains configuration for [Runner.Refresh].
type RefreshOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Backend requests per second (default: 5)
}

// RefreshFailure records a listing that could not be re-fetched.
type RefreshFailure struct {
	ID  string
	Err error
}

// RefreshResult summarizes a [Runner.Refresh] run.
type RefreshResult struct {
	Total     int
	Updated   int
	Unchanged int
	Missing   []string // IDs the backend no longer returns; kept in the store
	Failed    []RefreshFailure
}

// ExportOpts contains configuration for [Runner.Export].
type ExportOpts struct {
	Format  string // json, csv, markdown, txt
	Path    string // Output path (default: favorites.{ext})
	BaseURL string // Link target for markdown exports
}

// Runner executes favorites tasks against the hosted backend.
type Runner struct {
	listings services.ListingService
	logger   *log.Logger
}

type refreshOutcome struct {
	id       string
	name     string
	snapshot models.Favorite
	changed  bool
	missing  bool
	err      error
}

// NewRunner creates a [Runner]. The listing service is only needed by [Runner.Refresh].
func NewRunner(listings services.ListingService, logger *log.Logger) *Runner {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Runner{listings: listings, logger: shared.WithLogger(logger, "component", "tasks")}
}

// sendProgress sends a progress update through the channel without blocking.
func (r *Runner) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Refresh re-fetches every favorite in store and replaces stale snapshots.
//
// Fetches run on a worker pool behind a shared rate limiter; store writes happen on the calling goroutine.
// A canceled context stops dispatch and returns the partial result with the context error.
func (r *Runner) Refresh(
	ctx context.Context,
	store *favorites.Store,
	progress chan<- ProgressUpdate,
	opts RefreshOpts,
) (*RefreshResult, error) {
	if r.listings == nil {
		return nil, fmt.Errorf("%w: listing service not initialized", shared.ErrServiceUnavailable)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: favorites store is required", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	saved := store.List()
	result := &RefreshResult{Total: len(saved)}
	r.sendProgress(progress, loadFavoritesUpdate(len(saved), store.Key()))
	if len(saved) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan models.Favorite, len(saved))
	results := make(chan refreshOutcome, len(saved))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go r.refreshWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i, fav := range saved {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			r.sendProgress(progress, fetchListingUpdate(i+1, len(saved), fav.ID))
			jobs <- fav
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.err == nil && !res.missing && res.changed {
			if _, err := store.Update(ctx, res.snapshot); err != nil {
				res.err = err
			}
		}

		switch {
		case res.missing:
			result.Missing = append(result.Missing, res.id)
		case res.err != nil:
			result.Failed = append(result.Failed, RefreshFailure{ID: res.id, Err: res.err})
			r.logger.Warn("failed to refresh favorite", "id", res.id, "error", res.err)
		case res.changed:
			result.Updated++
		default:
			result.Unchanged++
		}
		r.sendProgress(progress, refreshedUpdate(completed, len(saved), res))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (r *Runner) refreshWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan models.Favorite,
	results chan<- refreshOutcome,
) {
	defer wg.Done()

	for fav := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- r.refreshOne(ctx, fav)
	}
}

// refreshOne fetches the listing behind fav and reports whether its snapshot changed.
func (r *Runner) refreshOne(ctx context.Context, fav models.Favorite) refreshOutcome {
	out := refreshOutcome{id: fav.ID, name: fav.Name}

	listing, err := r.listings.GetListing(ctx, fav.ID)
	switch {
	case errors.Is(err, shared.ErrListingNotFound):
		out.missing = true
		return out
	case err != nil:
		out.err = err
		return out
	}

	updated := fav.Refresh(*listing)
	out.name = updated.Name
	out.changed = updated != fav
	if out.changed {
		out.snapshot = updated
	}
	return out
}

// Export writes the favorites in store to disk and returns the written path.
func (r *Runner) Export(store *favorites.Store, progress chan<- ProgressUpdate, opts ExportOpts) (string, error) {
	if store == nil {
		return "", fmt.Errorf("%w: favorites store is required", shared.ErrMissingArgument)
	}
	if opts.Format == "" {
		opts.Format = "json"
	}

	saved := store.List()
	r.sendProgress(progress, exportingUpdate(len(saved), opts.Format))

	path, err := formatter.WriteExport(saved, opts.Format, opts.BaseURL, opts.Path)
	if err != nil {
		return "", err
	}

	r.logger.Info("favorites exported", "path", path, "count", len(saved), "format", opts.Format)
	r.sendProgress(progress, exportedUpdate(path))
	return path, nil
}

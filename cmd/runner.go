package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/repositories"
	"github.com/desertthunder/medspa/internal/services"
	"github.com/desertthunder/medspa/internal/shared"
	"github.com/desertthunder/medspa/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	listings   services.ListingService
	photos     services.PhotoService
	storage    favorites.Storage
	provider   *favorites.Provider
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
	tasks      *tasks.Runner
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Listings   services.ListingService
	Photos     services.PhotoService
	Storage    favorites.Storage // overrides the configured favorites adapter
	Logger     *log.Logger
	Output     io.Writer
	OpenURL    func(string) error // defaults to [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		listings:   opts.Listings,
		photos:     opts.Photos,
		storage:    opts.Storage,
		logger:     opts.Logger,
		output:     opts.Output,
		tasks:      tasks.NewRunner(opts.Listings, opts.Logger),
		openURL:    opts.OpenURL,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, listingsCommand, favoritesCommand, browseCommand, openCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and its task runner.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.tasks = tasks.NewRunner(r.listings, logger)
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// database opens the configured SQLite database on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

// favoritesStorage resolves the persistence adapter named by the favorites config.
func (r *Runner) favoritesStorage() (favorites.Storage, error) {
	if r.storage != nil {
		return r.storage, nil
	}

	switch kind := strings.ToLower(strings.TrimSpace(r.config.Favorites.Storage)); kind {
	case "sqlite":
		db, err := r.database()
		if err != nil {
			return nil, err
		}
		r.storage = repositories.NewKVRepository(db)
	case "", "file":
		r.storage = favorites.NewFileStorage(shared.ExpandHome(r.config.Favorites.Dir))
	default:
		return nil, fmt.Errorf("%w: unknown favorites storage %q (want file or sqlite)", shared.ErrInvalidConfig, kind)
	}

	return r.storage, nil
}

// favoritesStore returns the initialized local favorites set.
func (r *Runner) favoritesStore(ctx context.Context) (*favorites.Store, error) {
	if r.provider == nil {
		storage, err := r.favoritesStorage()
		if err != nil {
			return nil, err
		}
		r.provider = favorites.NewProvider(storage, r.logger)
	}
	return r.provider.Store(ctx, r.config.Favorites.Key), nil
}

func (r *Runner) requireListings() error {
	if r.listings == nil {
		return fmt.Errorf("%w: backend not configured (set backend.url and backend.anon_key)", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

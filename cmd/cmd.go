// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/medspa/internal/formatter"
	"github.com/urfave/cli/v3"
)

func outputFlags(pretty bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: pretty,
		},
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "city",
			Usage: "Only listings whose city contains this value",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of listings to return (1-100)",
			Value: 20,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "Number of listings to skip",
		},
	}
}

// serveCommand runs the HTTP service
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web app, JSON API, auth callback and image proxy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// listingsCommand queries the hosted backend
func listingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "listings",
		Aliases: []string{"ls"},
		Usage:   "Search and inspect med spa listings",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search listings by name, city, address or description",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  append(queryFlags(), outputFlags(false)...),
				Action: r.ListingsSearch,
			},
			{
				Name:  "get",
				Usage: "Show a single listing",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(true),
				Action: r.ListingsGet,
			},
			{
				Name:  "count",
				Usage: "Count listings matching a query",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "city",
						Usage: "Only listings whose city contains this value",
					},
				},
				Action: r.ListingsCount,
			},
		},
	}
}

// favoritesCommand manages the local favorites set
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage saved listings",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List saved listings",
				Flags:  outputFlags(false),
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Save a listing by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a saved listing by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "export",
				Usage: "Export saved listings to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: " + strings.Join(formatter.Formats, ", "),
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: favorites.{ext})",
					},
				},
				Action: r.FavoritesExport,
			},
			{
				Name:  "refresh",
				Usage: "Re-fetch saved listings and update their snapshots",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (max 10)",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Backend requests per second",
						Value: 5,
					},
				},
				Action: r.FavoritesRefresh,
			},
		},
	}
}

// browseCommand returns the top-level TUI command for interactive browsing.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch interactive TUI for browsing listings and favorites",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "city",
				Usage: "Only listings whose city contains this value",
			},
			&cli.BoolFlag{
				Name:  "sidebar",
				Usage: "Start with the sidebar open",
			},
		},
		Action: r.Browse,
	}
}

// openCommand opens the web app in the default browser
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open the web app in the default browser",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Action: r.Open,
	}
}

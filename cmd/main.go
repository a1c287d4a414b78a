package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/medspa/internal/services"
	"github.com/desertthunder/medspa/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}
	if applied := shared.ApplyEnv(config, ".env"); len(applied) > 0 {
		logger.Debug("applied environment overrides", "vars", applied)
	}

	var listings services.ListingService
	if backend, err := services.NewBackendService(config.Backend, nil); err == nil {
		listings = backend
	} else {
		logger.Debug("backend not configured", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		Listings:   listings,
		Photos:     services.NewPlacesService(config.Places, nil),
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "medspa",
		Usage:    "Discover medical spas and keep a list of favorites",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}

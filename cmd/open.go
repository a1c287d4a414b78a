package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/medspa/internal/shared"
	"github.com/urfave/cli/v3"
)

// Open opens the configured base URL, or a path under it, in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	target, err := r.resolveURL(cmd.StringArg("path"))
	if err != nil {
		return err
	}

	r.logger.Info("opening browser", "url", target)
	if err := r.openURL(target); err != nil {
		r.writePlain("Open this URL in your browser:\n%s\n", target)
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// resolveURL joins path onto server.base_url.
func (r *Runner) resolveURL(path string) (string, error) {
	base, err := url.Parse(strings.TrimSpace(r.config.Server.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("%w: server.base_url %q is not an absolute URL", shared.ErrInvalidConfig, r.config.Server.BaseURL)
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return base.String(), nil
	}

	ref, err := url.Parse("/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return base.ResolveReference(ref).String(), nil
}

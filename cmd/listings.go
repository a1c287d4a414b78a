package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
	"github.com/urfave/cli/v3"
)

func queryFromCommand(cmd *cli.Command) models.ListingQuery {
	return models.ListingQuery{
		Text:   cmd.StringArg("query"),
		City:   cmd.String("city"),
		Limit:  cmd.Int("limit"),
		Offset: cmd.Int("offset"),
	}.Normalize()
}

// ListingsSearch prints listings matching the query, best rated first.
func (r *Runner) ListingsSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireListings(); err != nil {
		return err
	}

	q := queryFromCommand(cmd)
	r.logger.Debug("searching listings", "text", q.Text, "city", q.City, "limit", q.Limit, "offset", q.Offset)

	results, err := r.listings.SearchListings(ctx, q)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if len(results) == 0 {
		return r.writePlain("No listings found\n")
	}

	for _, l := range results {
		r.writeListingLine(l)
	}
	return nil
}

// ListingsGet prints a single listing.
func (r *Runner) ListingsGet(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: listing id is required", shared.ErrMissingArgument)
	}
	if err := r.requireListings(); err != nil {
		return err
	}

	listing, err := r.listings.GetListing(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(listing, cmd.Bool("pretty"))
	}

	r.writePlainHeader(listing.Name)
	r.writePlain("ID:       %s\n", listing.ID)
	if loc := listing.Location(); loc != "" {
		r.writePlain("Location: %s\n", loc)
	}
	if listing.Address != "" {
		r.writePlain("Address:  %s\n", listing.Address)
	}
	if listing.Phone != "" {
		r.writePlain("Phone:    %s\n", listing.Phone)
	}
	if listing.Website != "" {
		r.writePlain("Website:  %s\n", listing.Website)
	}
	r.writePlain("Rating:   %s\n", shared.FormatRating(listing.Rating, listing.ReviewCount))
	if len(listing.Treatments) > 0 {
		r.writePlain("Treatments: %s\n", strings.Join(listing.Treatments, ", "))
	}
	if listing.Description != "" {
		r.writePlainln("%s", listing.Description)
	}
	return nil
}

// ListingsCount prints the number of listings matching the query.
func (r *Runner) ListingsCount(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireListings(); err != nil {
		return err
	}

	q := models.ListingQuery{Text: cmd.StringArg("query"), City: cmd.String("city")}.Normalize()
	count, err := r.listings.CountListings(ctx, q)
	if err != nil {
		return err
	}
	return r.writePlain("%d\n", count)
}

func (r *Runner) writeListingLine(l models.Listing) {
	line := fmt.Sprintf("%-12s %s", l.ID, l.Name)
	if loc := l.Location(); loc != "" {
		line += " (" + loc + ")"
	}
	r.writePlain("%s  %s\n", line, shared.FormatRating(l.Rating, l.ReviewCount))
}

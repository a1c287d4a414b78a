// package services defines interfaces for the hosted backend and the places provider
package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/medspa/internal/models"
)

// ListingService retrieves listings from the hosted data service.
type ListingService interface {
	// GetListing retrieves a single listing by ID.
	GetListing(ctx context.Context, id string) (*models.Listing, error)

	// SearchListings returns the listings matching q, best rated first.
	SearchListings(ctx context.Context, q models.ListingQuery) ([]models.Listing, error)

	// CountListings returns the total number of listings matching q, ignoring paging.
	CountListings(ctx context.Context, q models.ListingQuery) (int, error)
}

// PhotoService fetches place photos by reference.
type PhotoService interface {
	// FetchPhoto returns the upstream response; the caller must close its body.
	FetchPhoto(ctx context.Context, reference string, maxWidth int) (*http.Response, error)
}

// Unavailable is a [ListingService] that fails every call with err.
//
// Stands in for an unconfigured backend so dependent endpoints report a configuration error.
type Unavailable struct {
	Err error
}

func (u Unavailable) GetListing(context.Context, string) (*models.Listing, error) {
	return nil, u.Err
}

func (u Unavailable) SearchListings(context.Context, models.ListingQuery) ([]models.Listing, error) {
	return nil, u.Err
}

func (u Unavailable) CountListings(context.Context, models.ListingQuery) (int, error) {
	return 0, u.Err
}

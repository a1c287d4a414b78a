package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/medspa/internal/shared"
)

const (
	defaultPhotoURL = "https://maps.googleapis.com/maps/api/place/photo"
	DefaultMaxWidth = 800
	MaxPhotoWidth   = 1600
)

// PlacesService fetches photos from the places-photo provider.
type PlacesService struct {
	apiKey     string
	photoURL   string
	httpClient *http.Client
}

// NewPlacesService creates a [PlacesService]. An empty key is accepted here and reported per request.
func NewPlacesService(config shared.PlacesConfig, client *http.Client) *PlacesService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	photoURL := config.PhotoURL
	if photoURL == "" {
		photoURL = defaultPhotoURL
	}
	return &PlacesService{apiKey: config.APIKey, photoURL: photoURL, httpClient: client}
}

// ClampWidth bounds a requested photo width to [1, MaxPhotoWidth], using fallback for non-positive values.
func ClampWidth(width, fallback int) int {
	if width <= 0 {
		width = fallback
	}
	if width <= 0 {
		width = DefaultMaxWidth
	}
	return min(width, MaxPhotoWidth)
}

// FetchPhoto requests the photo for reference.
//
// Returns [shared.ErrMissingCredentials] without contacting the provider when no key is configured,
// and [shared.ErrUpstreamFetch] for transport failures and non-2xx responses.
func (p *PlacesService) FetchPhoto(ctx context.Context, reference string, maxWidth int) (*http.Response, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: places api_key is not configured", shared.ErrMissingCredentials)
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: photo reference is required", shared.ErrMissingArgument)
	}

	query := url.Values{}
	query.Set("maxwidth", strconv.Itoa(ClampWidth(maxWidth, DefaultMaxWidth)))
	query.Set("photo_reference", reference)
	query.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.photoURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// the request URL carries the key; report only the cause
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstreamFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", shared.ErrUpstreamFetch, resp.StatusCode)
	}

	return resp, nil
}

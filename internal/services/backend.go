package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

// searchColumns are matched as case-insensitive substrings by [BackendService.SearchListings].
var searchColumns = []string{"name", "city", "address", "description"}

// BackendService implements [ListingService] against a PostgREST endpoint.
type BackendService struct {
	api   *APIService
	table string
}

// NewBackendService creates a [BackendService] from config.
//
// Returns [shared.ErrMissingCredentials] when the URL or key is not configured.
func NewBackendService(config shared.BackendConfig, client *http.Client) (*BackendService, error) {
	if config.URL == "" || config.AnonKey == "" {
		return nil, fmt.Errorf("%w: backend url and anon_key are required", shared.ErrMissingCredentials)
	}

	if client == nil {
		timeout := time.Duration(config.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	table := config.Table
	if table == "" {
		table = "med_spas"
	}

	headers := http.Header{}
	headers.Set("apikey", config.AnonKey)
	headers.Set("Authorization", "Bearer "+config.AnonKey)

	return &BackendService{
		api:   NewAPIService(config.URL, headers, client),
		table: table,
	}, nil
}

func (b *BackendService) path() string {
	return "/rest/v1/" + b.table
}

// GetListing retrieves a single listing by ID.
func (b *BackendService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: listing id is required", shared.ErrMissingArgument)
	}

	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)
	query.Set("limit", "1")

	var listings []models.Listing
	if _, err := b.fetch(ctx, query, nil, &listings); err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrListingNotFound, id)
	}
	return &listings[0], nil
}

// SearchListings returns listings matching q ordered by rating, highest first.
func (b *BackendService) SearchListings(ctx context.Context, q models.ListingQuery) ([]models.Listing, error) {
	q = q.Normalize()

	query := filterQuery(q)
	query.Set("select", "*")
	query.Set("order", "rating.desc.nullslast")
	query.Set("limit", strconv.Itoa(q.Limit))
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	listings := []models.Listing{}
	if _, err := b.fetch(ctx, query, nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// CountListings returns the number of listings matching q.
func (b *BackendService) CountListings(ctx context.Context, q models.ListingQuery) (int, error) {
	query := filterQuery(q.Normalize())
	query.Set("select", "id")
	query.Set("limit", "1")

	extra := http.Header{}
	extra.Set("Prefer", "count=exact")

	resp, err := b.fetch(ctx, query, extra, nil)
	if err != nil {
		return 0, err
	}

	total, err := parseContentRange(resp.Headers.Get("Content-Range"))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return total, nil
}

// fetch runs the GET and decodes the body into out when out is non-nil.
func (b *BackendService) fetch(ctx context.Context, query url.Values, extra http.Header, out any) (*APIResponse, error) {
	resp, err := b.api.Get(ctx, b.path(), query, extra)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}
	return resp, nil
}

// filterQuery builds the PostgREST filters shared by search and count.
func filterQuery(q models.ListingQuery) url.Values {
	query := url.Values{}

	if q.Text != "" {
		pattern := quoteFilterValue("*" + q.Text + "*")
		clauses := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			clauses[i] = col + ".ilike." + pattern
		}
		query.Set("or", "("+strings.Join(clauses, ",")+")")
	}

	if q.City != "" {
		query.Set("city", "ilike."+quoteFilterValue("*"+q.City+"*"))
	}

	return query
}

// quoteFilterValue wraps v in double quotes so PostgREST reserved characters (, . : ( )) are taken literally.
func quoteFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

// parseContentRange extracts the total from "0-9/42" or "*/42".
func parseContentRange(header string) (int, error) {
	_, total, ok := strings.Cut(header, "/")
	if !ok {
		return 0, fmt.Errorf("missing count in Content-Range %q", header)
	}
	if total == "*" {
		return 0, fmt.Errorf("count not computed in Content-Range %q", header)
	}
	n, err := strconv.Atoi(strings.TrimSpace(total))
	if err != nil {
		return 0, fmt.Errorf("invalid count in Content-Range %q", header)
	}
	return n, nil
}

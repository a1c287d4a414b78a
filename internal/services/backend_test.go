package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *BackendService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewBackendService(shared.BackendConfig{URL: server.URL, AnonKey: "anon", Table: "med_spas"}, nil)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	return svc
}

func TestBackendService(t *testing.T) {
	ctx := context.Background()

	t.Run("New", func(t *testing.T) {
		t.Run("Missing Credentials", func(t *testing.T) {
			_, err := NewBackendService(shared.BackendConfig{URL: "http://x"}, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults Table", func(t *testing.T) {
			svc, err := NewBackendService(shared.BackendConfig{URL: "http://x", AnonKey: "k"}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.table != "med_spas" {
				t.Errorf("expected default table, got %s", svc.table)
			}
		})
	})

	t.Run("GetListing", func(t *testing.T) {
		t.Run("Found", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/rest/v1/med_spas" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("id"); got != "eq.m1" {
					t.Errorf("expected id filter eq.m1, got %s", got)
				}
				if r.Header.Get("Authorization") != "Bearer anon" || r.Header.Get("apikey") != "anon" {
					t.Errorf("expected key headers, got %v", r.Header)
				}
				json.NewEncoder(w).Encode([]models.Listing{{ID: "m1", Name: "Spa A", Treatments: []string{"Botox"}}})
			})

			listing, err := svc.GetListing(ctx, "m1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if listing.Name != "Spa A" || len(listing.Treatments) != 1 {
				t.Errorf("unexpected listing %+v", listing)
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[]`))
			})
			if _, err := svc.GetListing(ctx, "missing"); !errors.Is(err, shared.ErrListingNotFound) {
				t.Errorf("expected ErrListingNotFound, got %v", err)
			}
		})

		t.Run("Empty ID", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("backend should not be contacted")
			})
			if _, err := svc.GetListing(ctx, " "); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("Error Payload", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"invalid input syntax for type uuid"}`))
			})
			_, err := svc.GetListing(ctx, "bad")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "status 400") {
				t.Errorf("expected status in error, got %v", err)
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not":"an array"`))
			})
			if _, err := svc.GetListing(ctx, "m1"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("SearchListings", func(t *testing.T) {
		t.Run("Builds Filters", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				want := `(name.ilike."*glow*",city.ilike."*glow*",address.ilike."*glow*",description.ilike."*glow*")`
				if q.Get("or") != want {
					t.Errorf("unexpected or filter %s", q.Get("or"))
				}
				if q.Get("city") != `ilike."*Austin*"` {
					t.Errorf("unexpected city filter %s", q.Get("city"))
				}
				if q.Get("order") != "rating.desc.nullslast" || q.Get("limit") != "5" || q.Get("offset") != "10" {
					t.Errorf("unexpected paging/order %s", r.URL.RawQuery)
				}
				json.NewEncoder(w).Encode([]models.Listing{{ID: "m1"}, {ID: "m2"}})
			})

			listings, err := svc.SearchListings(ctx, models.ListingQuery{Text: " glow ", City: "Austin", Limit: 5, Offset: 10})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(listings) != 2 {
				t.Errorf("expected 2 listings, got %d", len(listings))
			}
		})

		t.Run("No Filters", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Has("or") || r.URL.Query().Has("city") {
					t.Errorf("expected no filters, got %s", r.URL.RawQuery)
				}
				w.Write([]byte(`[]`))
			})

			listings, err := svc.SearchListings(ctx, models.ListingQuery{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if listings == nil || len(listings) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", listings)
			}
		})

		t.Run("Quotes Reserved Characters", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.URL.Query().Get("or"), `name.ilike."*a,b \"c\"*"`) {
					t.Errorf("expected quoted pattern, got %s", r.URL.Query().Get("or"))
				}
				w.Write([]byte(`[]`))
			})
			if _, err := svc.SearchListings(ctx, models.ListingQuery{Text: `a,b "c"`}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	})

	t.Run("CountListings", func(t *testing.T) {
		t.Run("Reads Content-Range", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Prefer") != "count=exact" {
					t.Errorf("expected Prefer count header, got %v", r.Header)
				}
				w.Header().Set("Content-Range", "0-0/42")
				w.Write([]byte(`[{"id":"m1"}]`))
			})

			n, err := svc.CountListings(ctx, models.ListingQuery{Text: "spa"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != 42 {
				t.Errorf("expected 42, got %d", n)
			}
		})

		t.Run("Missing Header", func(t *testing.T) {
			svc := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[]`))
			})
			if _, err := svc.CountListings(ctx, models.ListingQuery{}); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})
}

func TestParseContentRange(t *testing.T) {
	tc := []struct {
		header  string
		want    int
		wantErr bool
	}{
		{header: "0-9/42", want: 42},
		{header: "*/0", want: 0},
		{header: "0-9/*", wantErr: true},
		{header: "", wantErr: true},
		{header: "0-9/abc", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.header, func(t *testing.T) {
			got, err := parseContentRange(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseContentRange(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseContentRange(%q) = %d, want %d", tt.header, got, tt.want)
			}
		})
	}
}

func TestUnavailable(t *testing.T) {
	var svc ListingService = Unavailable{Err: shared.ErrMissingCredentials}
	ctx := context.Background()

	if _, err := svc.GetListing(ctx, "m1"); !errors.Is(err, shared.ErrMissingCredentials) {
		t.Errorf("GetListing: expected ErrMissingCredentials, got %v", err)
	}
	if _, err := svc.SearchListings(ctx, models.ListingQuery{}); !errors.Is(err, shared.ErrMissingCredentials) {
		t.Errorf("SearchListings: expected ErrMissingCredentials, got %v", err)
	}
	if _, err := svc.CountListings(ctx, models.ListingQuery{}); !errors.Is(err, shared.ErrMissingCredentials) {
		t.Errorf("CountListings: expected ErrMissingCredentials, got %v", err)
	}
}

// package models defines the data model for the med spa directory
package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Listing is a medical spa record from the hosted data service.
//
// The shape follows the backend's med_spas table; unknown columns are ignored.
type Listing struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Address        string   `json:"address,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Website        string   `json:"website,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	ReviewCount    int      `json:"review_count,omitempty"`
	Treatments     []string `json:"treatments,omitempty"`
	PhotoReference string   `json:"photo_reference,omitempty"`
	Latitude       float64  `json:"latitude,omitempty"`
	Longitude      float64  `json:"longitude,omitempty"`
}

// Location joins the city and state for display.
func (l Listing) Location() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{l.City, l.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ListingQuery filters listing search and count requests.
//
// Text is matched as a case-insensitive substring over name, city, address and description.
type ListingQuery struct {
	Text   string
	City   string
	Limit  int
	Offset int
}

// QueryFromValues reads q, city, limit and offset request parameters into a normalized [ListingQuery].
func QueryFromValues(params url.Values) ListingQuery {
	limit, _ := strconv.Atoi(params.Get("limit"))
	offset, _ := strconv.Atoi(params.Get("offset"))
	return ListingQuery{
		Text:   params.Get("q"),
		City:   params.Get("city"),
		Limit:  limit,
		Offset: offset,
	}.Normalize()
}

// Normalize trims the text filters and clamps paging to [1, 100] / >= 0.
func (q ListingQuery) Normalize() ListingQuery {
	q.Text = strings.TrimSpace(q.Text)
	q.City = strings.TrimSpace(q.City)
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Favorite is a snapshot of a [Listing] the user marked for later reference.
type Favorite struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	Rating         float64   `json:"rating,omitempty"`
	ReviewCount    int       `json:"review_count,omitempty"`
	PhotoReference string    `json:"photo_reference,omitempty"`
	SavedAt        time.Time `json:"saved_at"`
}

// NewFavorite snapshots the display fields of l.
func NewFavorite(l Listing) Favorite {
	return Favorite{
		ID:             l.ID,
		Name:           l.Name,
		Address:        l.Address,
		City:           l.City,
		State:          l.State,
		Rating:         l.Rating,
		ReviewCount:    l.ReviewCount,
		PhotoReference: l.PhotoReference,
		SavedAt:        time.Now().UTC(),
	}
}

// Refresh returns f with display fields replaced from l, keeping SavedAt.
func (f Favorite) Refresh(l Listing) Favorite {
	updated := NewFavorite(l)
	updated.SavedAt = f.SavedAt
	return updated
}

// Validate checks the favorite has an identifier.
func (f Favorite) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("favorite ID is required")
	}
	return nil
}

// Session is the server-side record of an exchanged authorization code.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the session's token expiry has passed; a zero expiry never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

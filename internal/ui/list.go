package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

var (
	_ list.Item = listingItem{}
	_ list.Item = favoriteItem{}
)

// listingItem wraps [models.Listing] to implement [list.Item].
type listingItem struct {
	listing models.Listing
	saved   bool
}

func (i listingItem) FilterValue() string { return i.listing.Name + " " + i.listing.City }
func (i listingItem) Title() string {
	if i.saved {
		return "★ " + i.listing.Name
	}
	return i.listing.Name
}
func (i listingItem) Description() string {
	desc := shared.FormatRating(i.listing.Rating, i.listing.ReviewCount)
	if loc := i.listing.Location(); loc != "" {
		desc = fmt.Sprintf("%s • %s", loc, desc)
	}
	return desc
}

// favoriteItem wraps [models.Favorite] to implement [list.Item].
type favoriteItem struct {
	favorite models.Favorite
}

func (i favoriteItem) FilterValue() string { return i.favorite.Name }
func (i favoriteItem) Title() string       { return i.favorite.Name }
func (i favoriteItem) Description() string {
	desc := shared.FormatRating(i.favorite.Rating, i.favorite.ReviewCount)
	if i.favorite.City != "" {
		desc = fmt.Sprintf("%s • %s", i.favorite.City, desc)
	}
	if !i.favorite.SavedAt.IsZero() {
		desc = fmt.Sprintf("%s • saved %s", desc, i.favorite.SavedAt.Format("Jan 2, 2006"))
	}
	return desc
}

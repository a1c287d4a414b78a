package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/medspa/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgListingsFetched MsgKind = iota
	MsgDetailFetched
	MsgFavoriteToggled
)

type listingsFetched struct {
	listings []models.Listing
	total    int
	err      error
}

type detailFetched struct {
	listing *models.Listing
	err     error
}

type favoriteToggled struct {
	id    string
	saved bool
	err   error
}

// listingsFetchedMsg is the constructor for [MsgListingsFetched]
func listingsFetchedMsg(listings []models.Listing, total int, err error) Msg {
	return Msg{kind: MsgListingsFetched, data: listingsFetched{listings, total, err}}
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]
func detailFetchedMsg(listing *models.Listing, err error) Msg {
	return Msg{kind: MsgDetailFetched, data: detailFetched{listing, err}}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(id string, saved bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteToggled{id, saved, err}}
}

package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/medspa/internal/auth"
	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/services"
)

// APIHandler serves the JSON listings and favorites endpoints.
type APIHandler struct {
	listings  services.ListingService
	favorites *favorites.Provider
	logger    *log.Logger
}

// NewAPIHandler creates an [APIHandler].
func NewAPIHandler(listings services.ListingService, provider *favorites.Provider, logger *log.Logger) *APIHandler {
	return &APIHandler{listings: listings, favorites: provider, logger: logger}
}

type listingsResponse struct {
	Listings []models.Listing `json:"listings"`
	Count    int              `json:"count"`
}

type favoritesResponse struct {
	Favorites []models.Favorite `json:"favorites"`
}

type addFavoriteRequest struct {
	ListingID string `json:"listing_id"`
}

type addFavoriteResponse struct {
	Added    bool            `json:"added"`
	Favorite models.Favorite `json:"favorite"`
}

type removeFavoriteResponse struct {
	Removed bool `json:"removed"`
}

// ListListings handles GET /api/listings.
func (h *APIHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	q := models.QueryFromValues(r.URL.Query())

	listings, err := h.listings.SearchListings(r.Context(), q)
	if err != nil {
		h.fail(w, "search failed", err)
		return
	}
	count, err := h.listings.CountListings(r.Context(), q)
	if err != nil {
		h.fail(w, "count failed", err)
		return
	}

	writeJSON(w, http.StatusOK, listingsResponse{Listings: listings, Count: count})
}

// GetListing handles GET /api/listings/{id}.
func (h *APIHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetListing(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "get listing failed", err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// ListFavorites handles GET /api/favorites.
func (h *APIHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: store.List()})
}

// AddFavorite handles POST /api/favorites.
func (h *APIHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var body addFavoriteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.ListingID) == "" {
		writeError(w, http.StatusBadRequest, "listing_id is required")
		return
	}

	listing, err := h.listings.GetListing(r.Context(), body.ListingID)
	if err != nil {
		h.fail(w, "favorite lookup failed", err)
		return
	}

	fav := models.NewFavorite(*listing)
	added, err := h.store(r).Add(r.Context(), fav)
	if err != nil {
		h.fail(w, "failed to save favorite", err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	} else if existing, ok := h.store(r).Get(fav.ID); ok {
		fav = existing
	}
	writeJSON(w, status, addFavoriteResponse{Added: added, Favorite: fav})
}

// RemoveFavorite handles DELETE /api/favorites/{id}.
func (h *APIHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store(r).Remove(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "failed to remove favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, removeFavoriteResponse{Removed: removed})
}

// store returns the signed-in user's favorites. Routes using it sit behind [RequireSession].
func (h *APIHandler) store(r *http.Request) *favorites.Store {
	session, _ := auth.SessionFrom(r.Context())
	return h.favorites.Store(r.Context(), favorites.OwnerKey(session.UserID))
}

func (h *APIHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	switch {
	case status == http.StatusBadGateway:
		h.logger.Warn(msg, "error", err)
	case status >= http.StatusInternalServerError:
		h.logger.Error(msg, "error", err)
	}
	writeError(w, status, err.Error())
}

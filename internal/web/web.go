package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/medspa/internal/auth"
	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/services"
	"github.com/desertthunder/medspa/internal/shared"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	// SidebarCookie holds "open" while the sidebar is shown.
	SidebarCookie = "sidebar"
	homeLimit     = 12
)

var pages = []string{"home", "search", "detail", "my_page", "auth_error"}

// Handler serves the site pages.
type Handler struct {
	mux       *http.ServeMux
	templates map[string]*template.Template
	listings  services.ListingService
	favorites *favorites.Provider
	secure    bool
	logger    *log.Logger
}

// New creates a [Handler]. Templates are parsed from the embedded files and a parse failure is returned.
func New(listings services.ListingService, provider *favorites.Provider, secure bool, logger *log.Logger) (*Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		mux:       http.NewServeMux(),
		templates: templates,
		listings:  listings,
		favorites: provider,
		secure:    secure,
		logger:    logger,
	}

	h.mux.HandleFunc("GET /{$}", h.home)
	h.mux.HandleFunc("GET /search", h.search)
	h.mux.HandleFunc("GET /spas/{id}", h.detail)
	h.mux.HandleFunc("POST /spas/{id}/favorite", h.toggleFavorite)
	h.mux.HandleFunc("GET /my-page", h.myPage)
	h.mux.HandleFunc("GET /auth/auth-code-error", h.authError)
	h.mux.HandleFunc("POST /ui/sidebar", h.toggleSidebar)
	return h, nil
}

// Routes returns the mux patterns this handler serves.
func (h *Handler) Routes() []string {
	return []string{
		"GET /{$}",
		"GET /search",
		"GET /spas/{id}",
		"POST /spas/{id}/favorite",
		"GET /my-page",
		"GET /auth/auth-code-error",
		"POST /ui/sidebar",
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"rating":   shared.FormatRating,
		"photoURL": photoURL,
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		templates[name] = t
	}
	return templates, nil
}

// photoURL points at the image proxy for reference.
func photoURL(reference string, width int) string {
	q := url.Values{}
	q.Set("photo_reference", reference)
	if width > 0 {
		q.Set("maxwidth", strconv.Itoa(width))
	}
	return "/api/place-photo?" + q.Encode()
}

// Layout is the state shared by the navbar and sidebar regions.
type Layout struct {
	Title       string
	Path        string
	SidebarOpen bool
	SignedIn    bool
}

// page is the data every template receives.
type page struct {
	Layout
	Query      models.ListingQuery
	Listings   []models.Listing
	Count      int
	Listing    *models.Listing
	Favorites  []models.Favorite
	IsFavorite bool
	Error      string
}

func (h *Handler) layout(r *http.Request, title string) Layout {
	_, signedIn := auth.SessionFrom(r.Context())
	return Layout{
		Title:       title,
		Path:        r.URL.RequestURI(),
		SidebarOpen: SidebarOpen(r),
		SignedIn:    signedIn,
	}
}

// SidebarOpen reports the sidebar state carried by the request.
func SidebarOpen(r *http.Request) bool {
	c, err := r.Cookie(SidebarCookie)
	return err == nil && c.Value == "open"
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data page) {
	var buf bytes.Buffer
	if err := h.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	data := page{Layout: h.layout(r, "Discover med spas")}

	listings, err := h.listings.SearchListings(r.Context(), models.ListingQuery{Limit: homeLimit})
	if err != nil {
		h.logger.Warn("failed to load listings", "error", err)
		data.Error = "Listings are unavailable right now."
		h.render(w, http.StatusOK, "home", data)
		return
	}
	data.Listings = listings

	if count, err := h.listings.CountListings(r.Context(), models.ListingQuery{}); err != nil {
		h.logger.Warn("failed to count listings", "error", err)
		data.Count = len(listings)
	} else {
		data.Count = count
	}

	h.render(w, http.StatusOK, "home", data)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	q := models.QueryFromValues(r.URL.Query())
	data := page{Layout: h.layout(r, "Search"), Query: q}

	listings, err := h.listings.SearchListings(r.Context(), q)
	if err != nil {
		h.logger.Warn("search failed", "query", q.Text, "error", err)
		data.Error = "Search is unavailable right now."
		h.render(w, http.StatusOK, "search", data)
		return
	}
	data.Listings = listings
	data.Count = len(listings)

	if count, err := h.listings.CountListings(r.Context(), q); err == nil {
		data.Count = count
	}
	h.render(w, http.StatusOK, "search", data)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	data := page{Layout: h.layout(r, "Med spa")}

	listing, err := h.listings.GetListing(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusBadGateway
		data.Error = "This listing could not be loaded."
		if errors.Is(err, shared.ErrListingNotFound) {
			status = http.StatusNotFound
			data.Error = "We couldn't find that med spa."
		} else {
			h.logger.Warn("failed to load listing", "id", r.PathValue("id"), "error", err)
		}
		h.render(w, status, "detail", data)
		return
	}

	data.Title = listing.Name
	data.Listing = listing
	if store, ok := h.store(r); ok {
		data.IsFavorite = store.Contains(listing.ID)
	}
	h.render(w, http.StatusOK, "detail", data)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := r.FormValue("return")
	if !auth.SafeNext(back) {
		back = "/spas/" + url.PathEscape(id)
	}

	store, ok := h.store(r)
	if !ok {
		http.Redirect(w, r, loginURL(back), http.StatusSeeOther)
		return
	}

	if store.Contains(id) {
		if _, err := store.Remove(r.Context(), id); err != nil {
			h.logger.Error("failed to remove favorite", "id", id, "error", err)
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	listing, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		h.logger.Warn("failed to load listing for favorite", "id", id, "error", err)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if _, err := store.Add(r.Context(), models.NewFavorite(*listing)); err != nil {
		h.logger.Error("failed to save favorite", "id", id, "error", err)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) myPage(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(r)
	if !ok {
		http.Redirect(w, r, loginURL("/my-page"), http.StatusFound)
		return
	}

	h.render(w, http.StatusOK, "my_page", page{
		Layout:    h.layout(r, "My page"),
		Favorites: store.List(),
	})
}

func (h *Handler) authError(w http.ResponseWriter, r *http.Request) {
	data := page{Layout: h.layout(r, "Sign-in failed"), Error: r.URL.Query().Get("error")}
	h.render(w, http.StatusOK, "auth_error", data)
}

func (h *Handler) toggleSidebar(w http.ResponseWriter, r *http.Request) {
	value := "open"
	if SidebarOpen(r) {
		value = "closed"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SidebarCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	back := r.FormValue("return")
	if !auth.SafeNext(back) {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// store returns the signed-in user's favorites.
func (h *Handler) store(r *http.Request) (*favorites.Store, bool) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		return nil, false
	}
	return h.favorites.Store(r.Context(), favorites.OwnerKey(session.UserID)), true
}

func loginURL(next string) string {
	return "/login?" + url.Values{"next": {next}}.Encode()
}

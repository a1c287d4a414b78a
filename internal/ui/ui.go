package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListingsView ViewState = iota
	FavoritesView
	DetailView
)

var sections = []string{"Listings", "Favorites"}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	previous     ViewState
	listings     services.ListingService
	store        *favorites.Store
	query        models.ListingQuery
	toggle       *Toggle
	navbar       *Navbar
	sidebar      *Sidebar
	width        int
	height       int
	listingList  list.Model
	favoriteList list.Model
	total        int
	detail       *models.Listing
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The model owns the sidebar [Toggle]; the navbar and sidebar are built from it here.
func NewModel(ctx context.Context, listings services.ListingService, store *favorites.Store, query models.ListingQuery, sidebarOpen bool) *Model {
	toggle := NewToggle(sidebarOpen)

	m := &Model{
		ctx:          ctx,
		view:         ListingsView,
		listings:     listings,
		store:        store,
		query:        query.Normalize(),
		toggle:       toggle,
		navbar:       NewNavbar("medspa", toggle),
		sidebar:      NewSidebar(toggle, sections...),
		listingList:  newList("Med spas"),
		favoriteList: newList("Favorites"),
		help:         help.New(),
		keys:         newKeyMap(),
	}

	toggle.Subscribe(func(bool) { m.resize() })
	m.refreshFavorites()
	m.syncLayout()
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// Toggle exposes the sidebar state.
func (m *Model) Toggle() *Toggle {
	return m.toggle
}

// ViewState returns the current view.
func (m *Model) ViewState() ViewState {
	return m.view
}

// Init initializes the TUI by fetching listings.
func (m *Model) Init() tea.Cmd {
	return m.fetchListings()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgListingsFetched:
		data := msg.data.(listingsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.total = data.total
		items := make([]list.Item, len(data.listings))
		for i, l := range data.listings {
			items[i] = listingItem{listing: l, saved: m.store.Contains(l.ID)}
		}
		return m, m.listingList.SetItems(items)

	case MsgDetailFetched:
		data := msg.data.(detailFetched)
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Could not load listing: %v", data.err))
			return m, nil
		}
		m.detail = data.listing
		m.previous = m.view
		m.setView(DetailView)
		return m, nil

	case MsgFavoriteToggled:
		data := msg.data.(favoriteToggled)
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Could not update favorites: %v", data.err))
			return m, nil
		}
		if data.saved {
			m.status = styles.ok.Render("Saved")
		} else {
			m.status = styles.warn.Render("Removed")
		}
		m.refreshFavorites()
		return m, m.markSaved()
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.sidebar):
		m.toggle.Flip()
		return m, nil
	}

	switch m.view {
	case DetailView:
		switch {
		case key.Matches(msg, m.keys.back):
			m.setView(m.previous)
			return m, nil
		case key.Matches(msg, m.keys.favorite):
			if m.detail != nil {
				return m, m.toggleFavorite(*m.detail)
			}
		}
		return m, nil

	default:
		switch {
		case key.Matches(msg, m.keys.switchTo):
			if m.view == ListingsView {
				m.setView(FavoritesView)
			} else {
				m.setView(ListingsView)
			}
			return m, nil
		case key.Matches(msg, m.keys.refresh):
			m.status = ""
			return m, m.fetchListings()
		case key.Matches(msg, m.keys.enter):
			if id := m.selectedID(); id != "" {
				return m, m.fetchDetail(id)
			}
			return m, nil
		case key.Matches(msg, m.keys.favorite):
			return m, m.toggleSelected()
		}
	}

	return m.updateLists(msg)
}

// View renders the navbar, sidebar and content regions.
func (m *Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	case m.view == DetailView:
		content = m.renderDetail()
	case m.view == FavoritesView:
		content = m.renderList(m.favoriteList, "No favorites yet. Press f on a listing to save it.")
	default:
		content = m.renderList(m.listingList, "No med spas match.")
	}

	body := compose(m.sidebar.View(m.height-4), content)

	parts := []string{m.navbar.View(m.width), body}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, m.help.ShortHelpView(m.helpKeys()))
	return strings.Join(parts, "\n")
}

func (m *Model) renderList(l list.Model, empty string) string {
	if len(l.Items()) == 0 {
		return styles.help.Render(empty)
	}
	view := l.View()
	if m.view == ListingsView && m.total > 0 {
		view += "\n" + styles.help.Render(fmt.Sprintf("%d total", m.total))
	}
	return view
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return ""
	}
	l := m.detail

	saved := "☆ not saved"
	if m.store.Contains(l.ID) {
		saved = "★ saved"
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(l.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s • %s\n", listingItem{listing: *l}.Description(), saved)
	if l.Address != "" {
		fmt.Fprintf(&b, "%s\n", l.Address)
	}
	if l.Phone != "" {
		fmt.Fprintf(&b, "%s\n", l.Phone)
	}
	if l.Website != "" {
		fmt.Fprintf(&b, "%s\n", l.Website)
	}
	if l.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", l.Description)
	}
	b.WriteString("\nTreatments:\n")
	if len(l.Treatments) == 0 {
		b.WriteString(styles.help.Render("  none listed"))
	}
	for _, t := range l.Treatments {
		fmt.Fprintf(&b, "  • %s\n", t)
	}
	return b.String()
}

func (m *Model) helpKeys() []key.Binding {
	if m.view == DetailView {
		return []key.Binding{m.keys.back, m.keys.favorite, m.keys.sidebar, m.keys.quit}
	}
	return []key.Binding{m.keys.enter, m.keys.favorite, m.keys.switchTo, m.keys.sidebar, m.keys.quit}
}

func (m *Model) setView(v ViewState) {
	m.view = v
	m.syncLayout()
}

// syncLayout points the navbar and sidebar at the current view.
func (m *Model) syncLayout() {
	switch m.view {
	case FavoritesView:
		m.navbar.SetSection("Favorites")
		m.sidebar.SetActive(1)
	case DetailView:
		if m.detail != nil {
			m.navbar.SetSection(m.detail.Name)
		}
	default:
		m.navbar.SetSection("Listings")
		m.sidebar.SetActive(0)
	}
}

// resize fits the lists into the space left by the navbar, sidebar and help.
func (m *Model) resize() {
	w := max(m.width-m.sidebar.Width()-2, 0)
	h := max(m.height-6, 0)
	m.listingList.SetSize(w, h)
	m.favoriteList.SetSize(w, h)
}

func (m *Model) filtering() bool {
	switch m.view {
	case ListingsView:
		return m.listingList.FilterState() == list.Filtering
	case FavoritesView:
		return m.favoriteList.FilterState() == list.Filtering
	}
	return false
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListingsView:
		m.listingList, cmd = m.listingList.Update(msg)
	case FavoritesView:
		m.favoriteList, cmd = m.favoriteList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedID() string {
	switch m.view {
	case ListingsView:
		if item, ok := m.listingList.SelectedItem().(listingItem); ok {
			return item.listing.ID
		}
	case FavoritesView:
		if item, ok := m.favoriteList.SelectedItem().(favoriteItem); ok {
			return item.favorite.ID
		}
	}
	return ""
}

func (m *Model) toggleSelected() tea.Cmd {
	switch m.view {
	case ListingsView:
		if item, ok := m.listingList.SelectedItem().(listingItem); ok {
			return m.toggleFavorite(item.listing)
		}
	case FavoritesView:
		if item, ok := m.favoriteList.SelectedItem().(favoriteItem); ok {
			return m.removeFavorite(item.favorite.ID)
		}
	}
	return nil
}

// refreshFavorites reloads the favorites list from the store.
func (m *Model) refreshFavorites() {
	favs := m.store.List()
	items := make([]list.Item, len(favs))
	for i, f := range favs {
		items[i] = favoriteItem{favorite: f}
	}
	m.favoriteList.SetItems(items)
}

// markSaved redraws the saved marker on listing items.
func (m *Model) markSaved() tea.Cmd {
	current := m.listingList.Items()
	items := make([]list.Item, len(current))
	for i, it := range current {
		item := it.(listingItem)
		item.saved = m.store.Contains(item.listing.ID)
		items[i] = item
	}
	return m.listingList.SetItems(items)
}

func (m *Model) fetchListings() tea.Cmd {
	q := m.query
	return func() tea.Msg {
		listings, err := m.listings.SearchListings(m.ctx, q)
		if err != nil {
			return listingsFetchedMsg(nil, 0, err)
		}
		total, err := m.listings.CountListings(m.ctx, q)
		if err != nil {
			total = len(listings)
		}
		return listingsFetchedMsg(listings, total, nil)
	}
}

func (m *Model) fetchDetail(id string) tea.Cmd {
	return func() tea.Msg {
		listing, err := m.listings.GetListing(m.ctx, id)
		return detailFetchedMsg(listing, err)
	}
}

func (m *Model) toggleFavorite(l models.Listing) tea.Cmd {
	if m.store.Contains(l.ID) {
		return m.removeFavorite(l.ID)
	}
	store := m.store
	return func() tea.Msg {
		_, err := store.Add(m.ctx, models.NewFavorite(l))
		return favoriteToggledMsg(l.ID, true, err)
	}
}

func (m *Model) removeFavorite(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		_, err := store.Remove(m.ctx, id)
		return favoriteToggledMsg(id, false, err)
	}
}

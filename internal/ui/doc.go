// Package ui implements the interactive browse interface using bubbletea's Elm architecture.
//
// The screen is split into three regions:
//   - a [Navbar] across the top, showing the sidebar indicator and the current view
//   - a [Sidebar] on the left, listing the views
//   - the content area, one of [ListingsView], [FavoritesView] or [DetailView]
//
// Whether the sidebar is shown is a single [Toggle] owned by [Model] and handed to the navbar and
// the sidebar when they are built. Flipping it calls every subscriber synchronously, in the order
// they subscribed.
//
// Fetches run as tea.Cmds and report back through the Msg union type. Favorites are read from and
// written through a favorites.Store shared with the rest of the program.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus f to save a listing,
// s to toggle the sidebar and tab to switch views, with contextual help via charmbracelet/bubbles/help.
package ui

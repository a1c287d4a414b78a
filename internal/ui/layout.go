package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 18

// Navbar is the top region. It draws the sidebar indicator from the shared [Toggle].
type Navbar struct {
	title     string
	indicator string
	section   string
}

// NewNavbar creates a [Navbar] that follows toggle.
func NewNavbar(title string, toggle *Toggle) *Navbar {
	n := &Navbar{title: title}
	n.setIndicator(toggle.Open())
	toggle.Subscribe(n.setIndicator)
	return n
}

func (n *Navbar) setIndicator(open bool) {
	if open {
		n.indicator = "✕"
	} else {
		n.indicator = "☰"
	}
}

// Indicator returns the glyph drawn for the sidebar state.
func (n *Navbar) Indicator() string {
	return n.indicator
}

// SetSection names the current view.
func (n *Navbar) SetSection(section string) {
	n.section = section
}

// View renders the navbar at width.
func (n *Navbar) View(width int) string {
	text := n.indicator + "  " + n.title
	if n.section != "" {
		text += " / " + n.section
	}
	style := styles.navbar
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(text)
}

// Sidebar is the left region. It renders only while the shared [Toggle] is open.
type Sidebar struct {
	visible  bool
	sections []string
	active   int
}

// NewSidebar creates a [Sidebar] that follows toggle.
func NewSidebar(toggle *Toggle, sections ...string) *Sidebar {
	s := &Sidebar{visible: toggle.Open(), sections: sections}
	toggle.Subscribe(func(open bool) { s.visible = open })
	return s
}

// Visible reports whether the sidebar is drawn.
func (s *Sidebar) Visible() bool {
	return s.visible
}

// SetActive highlights the section at i.
func (s *Sidebar) SetActive(i int) {
	s.active = i
}

// Width is the number of columns the sidebar takes, zero when hidden.
func (s *Sidebar) Width() int {
	if !s.visible {
		return 0
	}
	return sidebarWidth + 2
}

// View renders the sidebar at height, or "" when hidden.
func (s *Sidebar) View(height int) string {
	if !s.visible {
		return ""
	}

	lines := make([]string, len(s.sections))
	for i, section := range s.sections {
		if i == s.active {
			lines[i] = styles.selected.Render("› " + section)
		} else {
			lines[i] = "  " + section
		}
	}

	style := styles.sidebar
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// compose joins the sidebar and content side by side.
func compose(sidebar, content string) string {
	if sidebar == "" {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
}

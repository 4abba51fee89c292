package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/popcorn/internal/tui/styles"
)

const (
	appName      = "popcorn"
	titlePopular = "Popular Movies"
)

// listTitle describes what the list is showing
func (m Model) listTitle() string {
	if m.list.Searching() {
		return fmt.Sprintf("Results for %q", strings.TrimSpace(m.list.Query()))
	}
	return titlePopular
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	// Handle modal states
	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmClear:
		return m.renderClearConfirmation()
	}

	var content string
	switch {
	case m.State == StateDetail:
		content = m.DetailPane.View()
	case m.showPreview():
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.MovieList.View(),
			m.DetailPane.View(),
		)
	default:
		content = m.MovieList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}

// renderHeader renders the app name and the search bar
func (m Model) renderHeader() string {
	left := styles.BadgeStyle.Render(appName)
	if m.list.Searching() {
		left += " " + styles.DimBadgeStyle.Render("search")
	}

	var right string
	switch count := m.MovieList.ItemCount(); {
	case m.SearchBar.Focused() || m.SearchBar.Value() != "":
		right = m.SearchBar.View()
	case count == 0:
		right = styles.DimStyle.Render("0 movies")
	default:
		right = styles.DimStyle.Render(fmt.Sprintf("%d of %d movies", m.MovieList.SelectedIndex()+1, count))
	}

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the status line
func (m Model) renderFooter() string {
	var left string
	status := m.status()
	switch {
	case m.loading():
		text := "Loading..."
		if m.State != StateDetail && m.list.Searching() {
			text = "Searching..."
		}
		left = styles.Spinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(text)
	case status.IsError():
		left = styles.ErrorStyle.Render(status.Text) + styles.DimStyle.Render("  (d to dismiss)")
	case !status.IsZero():
		left = styles.InfoStyle.Render(status.Text)
	}

	// Right side: "? help" hint
	right := styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth >= m.Width {
		left = styles.Truncate(status.Text, max(m.Width-rightWidth-1, 0))
		leftWidth = lipgloss.Width(left)
	}

	gap := max(m.Width-leftWidth-rightWidth, 0)
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSE                          CACHE
  j/k        Up/down              c      Show cached movies
  g/G        First/last           X      Clear cache
  Ctrl+u/d   Half page
  Enter      Details            OTHER
  h/Esc      Back                 r      Refresh
                                  d      Dismiss message
SEARCH                            q      Quit
  /          Search TMDB          ?      This help
  f          Filter loaded list
  Esc        Clear search/filter

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderClearConfirmation renders the clear-cache confirmation modal
func (m Model) renderClearConfirmation() string {
	modal := `
           Clear Cache?

  This removes every movie stored for
  offline browsing.

        [Y] Yes      [N] No
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

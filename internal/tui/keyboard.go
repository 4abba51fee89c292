package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/popcorn/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = m.helpReturn
		return m, nil

	case StateConfirmClear:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, m.list.ClearCache()
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StateSearching:
		return m.handleSearchKey(msg)

	case StateDetail:
		return m.handleDetailKey(msg)
	}

	// Filter input swallows everything while it has focus
	if m.MovieList.IsFilterTyping() {
		cmd, moved := m.MovieList.Update(msg)
		if moved {
			m.updatePreview()
		}
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.helpReturn = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.MovieList.IsFiltering() {
			m.MovieList.ClearFilter()
			m.updatePreview()
			return m, nil
		}
		if m.list.Searching() {
			m.SearchBar.Reset()
			cmd := m.replaceList(m.list.ClearSearch())
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.State = StateSearching
		m.MovieList.SetFocused(false)
		cmd := m.SearchBar.Focus()
		return m, cmd

	case key.Matches(msg, Keys.Filter):
		m.MovieList.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.MovieList.ClearFilter()
		var cmd tea.Cmd
		if m.list.Searching() {
			m.SearchBar.Reset()
			cmd = m.replaceList(m.list.ClearSearch())
		} else {
			cmd = m.replaceList(m.list.Load(true))
		}
		return m, cmd

	case key.Matches(msg, Keys.Cached):
		m.MovieList.ClearFilter()
		m.SearchBar.Reset()
		cmd := m.replaceList(m.list.ShowCached())
		return m, cmd

	case key.Matches(msg, Keys.ClearCache):
		m.State = StateConfirmClear
		return m, nil

	case key.Matches(msg, Keys.Dismiss):
		m.list.DismissStatus()
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if movie, ok := m.MovieList.SelectedMovie(); ok {
			cmd := m.openDetail(movie)
			return m, cmd
		}
		return m, nil
	}

	cmd, moved := m.MovieList.Update(msg)
	if moved {
		m.updatePreview()
	}
	// Down keys on the last row ask for the next page even when the cursor cannot move
	if !key.Matches(msg, components.MovieListKeys.Down, components.MovieListKeys.End, components.MovieListKeys.HalfDown) {
		return m, cmd
	}
	more := m.loadMoreIfNeeded()
	return m, tea.Batch(cmd, more)
}

// handleSearchKey routes input to the search bar. Every edit restarts the
// debounced search.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	var event components.SearchEvent
	m.SearchBar, cmd, event = m.SearchBar.Update(msg)

	switch event {
	case components.SearchChanged:
		search := m.replaceList(m.list.SetQuery(m.SearchBar.Value()))
		return m, tea.Batch(cmd, search)
	case components.SearchAccepted:
		m.State = StateBrowsing
		m.MovieList.SetFocused(true)
	case components.SearchCleared:
		m.State = StateBrowsing
		m.MovieList.SetFocused(true)
		if m.list.Searching() {
			reload := m.replaceList(m.list.ClearSearch())
			return m, tea.Batch(cmd, reload)
		}
	}
	return m, cmd
}

// handleDetailKey handles input on the detail view
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.helpReturn = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.closeDetail()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		return m, m.detail.Load()

	case key.Matches(msg, Keys.Dismiss):
		m.detail.DismissStatus()
		return m, nil
	}

	var cmd tea.Cmd
	m.DetailPane, cmd = m.DetailPane.Update(msg)
	return m, cmd
}

package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/popcorn/internal/browse"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StateDetail
	StateHelp
	StateConfirmClear
)

// Layout proportions
const (
	ListColumnPercent = 45
	MinColumnWidth    = 24

	// Below this width the preview pane is hidden
	PreviewMinWidth = 80

	// Header line plus footer line
	ChromeHeight = 2
)

// Options configures the application model
type Options struct {
	Images   components.ImageSettings
	Debounce time.Duration
	Timeout  time.Duration
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	repo   domain.MovieRepository
	logger *slog.Logger

	// Orchestrators
	list   *browse.List
	detail *browse.Detail

	// UI Components
	MovieList  *components.MovieList
	SearchBar  components.SearchBar
	DetailPane components.DetailPane

	// Dimensions
	Width  int
	Height int

	SpinnerFrame int

	// State to return to when help closes
	helpReturn ApplicationState
}

// NewModel creates a new application model
func NewModel(repo domain.MovieRepository, opts Options, logger *slog.Logger) Model {
	var listOpts []browse.Option
	if opts.Debounce > 0 {
		listOpts = append(listOpts, browse.WithDebounce(opts.Debounce))
	}
	if opts.Timeout > 0 {
		listOpts = append(listOpts, browse.WithTimeout(opts.Timeout))
	}

	return Model{
		State:      StateBrowsing,
		repo:       repo,
		logger:     logger,
		list:       browse.NewList(repo, logger, listOpts...),
		MovieList:  components.NewMovieList(titlePopular),
		SearchBar:  components.NewSearchBar(),
		DetailPane: components.NewDetailPane(opts.Images),
	}
}

// Init loads the first page and starts the spinner
func (m Model) Init() tea.Cmd {
	cmd := m.list.Load(true)
	m.syncList()
	return tea.Batch(cmd, TickCmd(tickInterval))
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.MovieList.SetSpinnerFrame(m.SpinnerFrame)
		if m.detail != nil {
			m.DetailPane.SetLoading(m.detail.Loading(), m.SpinnerFrame)
		}
		return m, TickCmd(tickInterval)

	case browse.PageLoadedMsg, browse.SearchResultsMsg, browse.CachedLoadedMsg, browse.CacheClearedMsg:
		cmd := m.list.Update(msg)
		m.syncList()
		return m, cmd

	case browse.DetailLoadedMsg:
		if m.detail == nil {
			return m, nil
		}
		cmd := m.detail.Update(msg)
		m.syncDetail()
		return m, cmd
	}

	// Cursor blink and other input messages
	var cmd tea.Cmd
	switch {
	case m.State == StateSearching:
		m.SearchBar, cmd, _ = m.SearchBar.Update(msg)
	case m.MovieList.IsFilterTyping():
		cmd, _ = m.MovieList.Update(msg)
	}
	return m, cmd
}

// openDetail switches to the detail view for a movie
func (m *Model) openDetail(movie domain.Movie) tea.Cmd {
	m.detail = browse.NewDetail(m.repo, movie, m.logger)
	m.State = StateDetail
	cmd := m.detail.Load()
	m.DetailPane.SetMovie(movie)
	m.syncDetail()
	m.updateLayout()
	return cmd
}

// closeDetail returns to the list
func (m *Model) closeDetail() {
	m.detail = nil
	m.State = StateBrowsing
	m.DetailPane.SetLoading(false, m.SpinnerFrame)
	m.updatePreview()
	m.updateLayout()
}

// replaceList starts a request that will replace the list contents
func (m *Model) replaceList(cmd tea.Cmd) tea.Cmd {
	m.MovieList.ResetCursor()
	m.syncList()
	return cmd
}

// syncList copies orchestrator state into the list component
func (m *Model) syncList() {
	m.MovieList.SetMovies(m.list.Movies())
	m.MovieList.SetLoading(m.list.Loading())
	m.MovieList.SetTitle(m.listTitle())
	if m.State != StateDetail {
		m.updatePreview()
	}
}

// syncDetail copies the detail orchestrator state into the detail pane
func (m *Model) syncDetail() {
	if m.detail == nil {
		return
	}
	m.DetailPane.SetMovie(m.detail.Movie())
	m.DetailPane.SetLoading(m.detail.Loading(), m.SpinnerFrame)
}

// updatePreview shows the selected movie in the side pane
func (m *Model) updatePreview() {
	if movie, ok := m.MovieList.SelectedMovie(); ok {
		m.DetailPane.SetMovie(movie)
	}
}

// loadMoreIfNeeded asks for the next page once the cursor reaches the end
func (m *Model) loadMoreIfNeeded() tea.Cmd {
	if !m.MovieList.AtLastRow() {
		return nil
	}
	movie, ok := m.MovieList.SelectedMovie()
	if !ok {
		return nil
	}
	cmd := m.list.LoadMoreIfNeeded(movie)
	if cmd != nil {
		m.MovieList.SetLoading(true)
	}
	return cmd
}

// status returns the message for the active view
func (m Model) status() browse.Status {
	if m.State == StateDetail && m.detail != nil {
		return m.detail.Status()
	}
	return m.list.Status()
}

// loading reports whether the active view is waiting on a request
func (m Model) loading() bool {
	if m.State == StateDetail && m.detail != nil {
		return m.detail.Loading()
	}
	return m.list.Loading()
}

// showPreview reports whether the terminal is wide enough for the side pane
func (m Model) showPreview() bool {
	return m.Width >= PreviewMinWidth
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := m.Height - ChromeHeight
	m.SearchBar.SetWidth(m.Width / 2)

	if m.State == StateDetail {
		m.DetailPane.SetSize(m.Width, contentHeight)
		return
	}

	if !m.showPreview() {
		m.MovieList.SetSize(m.Width, contentHeight)
		return
	}

	listWidth := max(m.Width*ListColumnPercent/100, MinColumnWidth)
	m.MovieList.SetSize(listWidth, contentHeight)
	m.DetailPane.SetSize(m.Width-listWidth, contentHeight)
}

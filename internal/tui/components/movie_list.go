package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// Layout constants for the movie list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// MovieList is a scrollable list of movies with a local fuzzy filter.
// The filter narrows what is already loaded; it never hits the network.
type MovieList struct {
	movies []domain.Movie

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	loading      bool
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into movies
}

// NewMovieList creates an empty movie list with the given title
func NewMovieList(title string) *MovieList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "f "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &MovieList{
		title:       title,
		filterInput: ti,
		focused:     true,
	}
}

// SetMovies replaces the list contents. The cursor is kept where it was when
// possible, so appending a page does not jump the selection.
func (l *MovieList) SetMovies(movies []domain.Movie) {
	l.movies = movies
	if l.filterActive {
		l.applyFilter()
	}
	l.clampCursor()
	l.ensureVisible()
}

// ResetCursor moves the selection back to the first row
func (l *MovieList) ResetCursor() {
	l.cursor = 0
	l.offset = 0
}

func (l *MovieList) SetTitle(title string)   { l.title = title }
func (l *MovieList) SetLoading(loading bool) { l.loading = loading }
func (l *MovieList) SetSpinnerFrame(f int)   { l.spinnerFrame = f }
func (l *MovieList) SetFocused(focused bool) { l.focused = focused }
func (l *MovieList) ItemCount() int          { return l.filteredCount() }
func (l *MovieList) SelectedIndex() int      { return l.cursor }

func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// SelectedMovie returns the movie under the cursor
func (l *MovieList) SelectedMovie() (domain.Movie, bool) {
	count := l.ItemCount()
	if count == 0 || l.cursor >= count {
		return domain.Movie{}, false
	}
	return l.movies[l.mapIndex(l.cursor)], true
}

// AtLastRow reports whether the cursor sits on the last loaded movie.
// Always false while a filter narrows the list.
func (l *MovieList) AtLastRow() bool {
	if l.filteredIdx != nil || len(l.movies) == 0 {
		return false
	}
	return l.cursor == len(l.movies)-1
}

// ToggleFilter activates the filter input
func (l *MovieList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (l *MovieList) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping returns true if the filter input has focus
func (l *MovieList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all movies
func (l *MovieList) ClearFilter() {
	l.clearFilter()
}

// Update handles navigation and filter keys. It reports whether the cursor moved.
func (l *MovieList) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !l.focused {
		return nil, false
	}

	if l.IsFilterTyping() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, MovieListKeys.Escape):
				l.clearFilter()
				return nil, true
			case key.Matches(keyMsg, MovieListKeys.Accept):
				l.filterInput.Blur()
				return nil, false
			case key.Matches(keyMsg, MovieListKeys.Erase) && l.filterInput.Value() == "":
				l.clearFilter()
				return nil, true
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return cmd, true
	}

	count := l.ItemCount()
	if count == 0 {
		return nil, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	before := l.cursor
	switch {
	case key.Matches(keyMsg, MovieListKeys.Down):
		l.cursor++
	case key.Matches(keyMsg, MovieListKeys.Up):
		l.cursor--
	case key.Matches(keyMsg, MovieListKeys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, MovieListKeys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, MovieListKeys.HalfDown):
		l.cursor += max(l.maxVisible/2, 1)
	case key.Matches(keyMsg, MovieListKeys.HalfUp):
		l.cursor -= max(l.maxVisible/2, 1)
	}
	l.clampCursor()
	l.ensureVisible()
	return nil, l.cursor != before
}

func (l *MovieList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(l.width - frameW).
		Height(l.height - frameH).
		Render(l.renderContent())
}

// Internal methods

func (l *MovieList) recalcMaxVisible() {
	interiorHeight := l.height - BorderHeight
	l.maxVisible = interiorHeight - ScrollIndicatorLines - 1 // -1 for title
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *MovieList) clampCursor() {
	count := l.ItemCount()
	if l.cursor >= count {
		l.cursor = count - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *MovieList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l *MovieList) clearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filteredIdx = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.clampCursor()
	l.ensureVisible()
}

func (l *MovieList) applyFilter() {
	query := l.filterInput.Value()
	changed := query != l.filterQuery
	l.filterQuery = query

	if query == "" {
		l.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(l.movies))
	for i, m := range l.movies {
		lowerTitles[i] = strings.ToLower(m.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	l.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		l.filteredIdx[i] = match.Index
	}

	if changed {
		l.cursor = 0
		l.offset = 0
	}
}

func (l *MovieList) filteredCount() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.movies)
}

func (l *MovieList) mapIndex(i int) int {
	if l.filteredIdx != nil && i < len(l.filteredIdx) {
		return l.filteredIdx[i]
	}
	return i
}

// Rendering

func (l *MovieList) renderContent() string {
	itemWidth := l.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, itemWidth))

	count := l.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No movies")
		if l.loading {
			emptyMsg = styles.Spinner(l.spinnerFrame) + styles.DimStyle.Render(" Loading...")
		} else if l.filterActive && l.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n \n" + emptyMsg + "\n "
		if l.filterActive {
			content += "\n" + l.renderFilterBar()
		}
		return content
	}

	end := l.offset + l.maxVisible
	if end > count {
		end = count
	}

	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, renderMovieRow(l.movies[l.mapIndex(i)], i == l.cursor, itemWidth))
	}

	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}

	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	} else if l.loading {
		footer = styles.Spinner(l.spinnerFrame) + styles.DimStyle.Render(" Loading more...")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.renderFilterBar()
	}
	return content
}

func renderMovieRow(m domain.Movie, selected bool, width int) string {
	rating := m.FormattedRating()
	ratingFg := styles.DimGray
	if m.VoteAverage != nil {
		ratingFg = styles.RatingColor(*m.VoteAverage)
	}
	ratingText := fmt.Sprintf("★ %-3s", rating)

	title := m.Title
	if year := m.ReleaseYear(); year != domain.NotAvailable {
		title = fmt.Sprintf("%s (%s)", m.Title, year)
	}

	// width - rating - space - margins(2)
	available := width - lipgloss.Width(ratingText) - 3
	if available < 5 {
		available = 5
	}
	title = styles.Truncate(title, available)

	parts := []styles.RowPart{
		{Text: ratingText, Foreground: &ratingFg},
		{Text: " " + title},
	}
	return styles.RenderListRow(parts, selected, width)
}

func (l *MovieList) renderFilterBar() string {
	input := l.filterInput.View()
	if l.filterQuery == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", l.ItemCount(), len(l.movies)))
}

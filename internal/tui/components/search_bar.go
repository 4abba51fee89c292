package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// SearchEvent tells the caller what a key press did to the search bar
type SearchEvent int

const (
	SearchNone SearchEvent = iota
	SearchChanged
	SearchAccepted
	SearchCleared
)

// SearchBar is the remote search input. Every edit is reported so the
// caller can restart its debounce.
type SearchBar struct {
	input     textinput.Model
	width     int
	prevQuery string
}

// NewSearchBar creates a blurred search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search TMDB..."
	ti.CharLimit = 100
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

// Focus gives the bar keyboard focus
func (b *SearchBar) Focus() tea.Cmd {
	return b.input.Focus()
}

// Reset empties and blurs the bar
func (b *SearchBar) Reset() {
	b.input.SetValue("")
	b.input.Blur()
	b.prevQuery = ""
}

func (b SearchBar) Focused() bool { return b.input.Focused() }
func (b SearchBar) Value() string { return b.input.Value() }

// SetWidth updates the input width
func (b *SearchBar) SetWidth(width int) {
	b.width = width
	b.input.Width = max(width-4, 10)
}

// Update handles input while focused
func (b SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, SearchEvent) {
	if !b.input.Focused() {
		return b, nil, SearchNone
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, SearchBarKeys.Escape):
			b.Reset()
			return b, nil, SearchCleared
		case key.Matches(keyMsg, SearchBarKeys.Accept):
			b.input.Blur()
			return b, nil, SearchAccepted
		}
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)

	if current := b.input.Value(); current != b.prevQuery {
		b.prevQuery = current
		return b, cmd, SearchChanged
	}
	return b, cmd, SearchNone
}

// View renders the bar on one line
func (b SearchBar) View() string {
	return lipgloss.NewStyle().Width(b.width).Render(b.input.View())
}

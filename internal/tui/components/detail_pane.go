package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// ImageSettings selects the CDN and sizes used for artwork links
type ImageSettings struct {
	BaseURL      string
	PosterSize   string
	BackdropSize string
}

// DetailPane shows one movie in a scrollable viewport
type DetailPane struct {
	viewport viewport.Model
	images   ImageSettings
	movie    domain.Movie
	hasMovie bool
	loading  bool
	frame    int
	width    int
	height   int
}

// NewDetailPane creates an empty detail pane
func NewDetailPane(images ImageSettings) DetailPane {
	return DetailPane{
		viewport: viewport.New(0, 0),
		images:   images,
	}
}

// SetMovie replaces the movie shown and scrolls back to the top
func (d *DetailPane) SetMovie(m domain.Movie) {
	scrollTop := !d.hasMovie || d.movie.ID != m.ID
	d.movie = m
	d.hasMovie = true
	d.refresh()
	if scrollTop {
		d.viewport.GotoTop()
	}
}

// SetLoading toggles the refresh indicator in the header
func (d *DetailPane) SetLoading(loading bool, frame int) {
	d.loading = loading
	d.frame = frame
}

// SetSize updates the component dimensions
func (d *DetailPane) SetSize(width, height int) {
	d.width = width
	d.height = height
	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	d.viewport.Width = max(width-frameW-2, 10)
	d.viewport.Height = max(height-frameH-1, 1) // -1 for header line
	d.refresh()
}

// Update scrolls the viewport
func (d DetailPane) Update(msg tea.Msg) (DetailPane, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// View renders the component
func (d DetailPane) View() string {
	header := styles.AccentStyle.Render("Details")
	if d.loading {
		header += " " + styles.Spinner(d.frame)
	}
	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	return styles.ActiveBorder.
		Width(d.width - frameW).
		Height(d.height - frameH).
		Render(header + "\n" + d.viewport.View())
}

func (d *DetailPane) refresh() {
	if !d.hasMovie {
		d.viewport.SetContent(styles.DimStyle.Render("No movie selected"))
		return
	}
	d.viewport.SetContent(RenderMovieDetail(d.movie, d.images, d.viewport.Width))
}

// RenderMovieDetail renders the full metadata block for a movie
func RenderMovieDetail(m domain.Movie, images ImageSettings, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.Title))
	b.WriteString("\n\n")

	rating := m.FormattedRating()
	ratingStyle := styles.DimStyle
	if m.VoteAverage != nil {
		ratingStyle = lipgloss.NewStyle().Foreground(styles.RatingColor(*m.VoteAverage))
	}

	b.WriteString(styles.DimStyle.Render("Year:       ") + m.ReleaseYear() + "\n")
	b.WriteString(styles.DimStyle.Render("Rating:     ") + ratingStyle.Render("★ "+rating))
	if votes := m.FormattedVoteCount(); votes != domain.NotAvailable {
		b.WriteString(styles.DimStyle.Render(" (" + votes + ")"))
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Popularity: ") + m.FormattedPopularity() + "\n")
	b.WriteString(styles.DimStyle.Render("Language:   ") + m.LanguageCode() + "\n")
	if m.IsAdult() {
		b.WriteString(styles.BadgeStyle.Render("ADULT") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.SubtitleStyle.Render(wordWrap(m.OverviewText(), width)))
	b.WriteString("\n\n")

	if poster := m.PosterURL(images.BaseURL, images.PosterSize); poster != "" {
		b.WriteString(styles.DimStyle.Render("Poster:   ") + poster + "\n")
	}
	if backdrop := m.BackdropURL(images.BaseURL, images.BackdropSize); backdrop != "" {
		b.WriteString(styles.DimStyle.Render("Backdrop: ") + backdrop + "\n")
	}
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("TMDB id:  %d", m.ID)))

	return b.String()
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}

package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/popcorn/internal/domain"
)

var testImages = ImageSettings{
	BaseURL:      "https://image.tmdb.org/t/p",
	PosterSize:   "w500",
	BackdropSize: "w780",
}

func TestRenderMovieDetail(t *testing.T) {
	movie := domain.Movie{
		ID:               27205,
		Title:            "Inception",
		Overview:         domain.Ptr("A thief who steals corporate secrets."),
		PosterPath:       domain.Ptr("/poster.jpg"),
		ReleaseDate:      domain.Ptr("2010-07-15"),
		OriginalLanguage: domain.Ptr("en"),
		VoteAverage:      domain.Ptr(8.4),
		VoteCount:        domain.Ptr(35000),
	}

	out := RenderMovieDetail(movie, testImages, 80)

	assert.Contains(t, out, "Inception")
	assert.Contains(t, out, "2010")
	assert.Contains(t, out, "8.4")
	assert.Contains(t, out, "A thief who steals corporate secrets.")
	assert.Contains(t, out, "https://image.tmdb.org/t/p/w500/poster.jpg")
	assert.NotContains(t, out, "Backdrop:", "no backdrop path")
	assert.Contains(t, out, "TMDB id:  27205")
}

func TestRenderMovieDetail_MissingFields(t *testing.T) {
	out := RenderMovieDetail(domain.Movie{ID: 1, Title: "Unknown"}, testImages, 80)

	assert.Contains(t, out, domain.NotAvailable)
	assert.NotContains(t, out, "Poster:")
}

func TestDetailPane_View(t *testing.T) {
	d := NewDetailPane(testImages)
	d.SetSize(60, 20)
	assert.Contains(t, d.View(), "No movie selected")

	d.SetMovie(domain.Movie{ID: 1, Title: "Heat"})
	d.SetLoading(true, 0)
	view := d.View()
	assert.Contains(t, view, "Heat")
	assert.Contains(t, view, "Details")

	d, _ = d.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, d.View(), "Details")
}

func TestWordWrap(t *testing.T) {
	assert.Equal(t, "a bb\nccc\ndddd", wordWrap("a bb ccc dddd", 6))
	assert.Equal(t, "unchanged text", wordWrap("unchanged text", 0))
	assert.Equal(t, "", wordWrap("", 10))
}

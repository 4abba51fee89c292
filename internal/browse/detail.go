package browse

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/popcorn/internal/domain"
)

// Detail refreshes a single movie picked from the list. It starts with the
// list's copy so there is always something to show.
type Detail struct {
	repo    domain.MovieRepository
	logger  *slog.Logger
	timeout time.Duration

	movie   domain.Movie
	loading bool
	status  Status
}

// NewDetail creates a Detail for movie.
func NewDetail(repo domain.MovieRepository, movie domain.Movie, logger *slog.Logger) *Detail {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detail{
		repo:    repo,
		logger:  logger,
		timeout: defaultTimeout,
		movie:   movie,
	}
}

func (d *Detail) Movie() domain.Movie { return d.movie }
func (d *Detail) Loading() bool       { return d.loading }
func (d *Detail) Status() Status      { return d.status }

// DismissStatus clears the current status message.
func (d *Detail) DismissStatus() {
	d.status = Status{}
}

// Load fetches the latest version of the movie.
func (d *Detail) Load() tea.Cmd {
	if d.loading {
		return nil
	}
	d.loading = true
	d.status = Status{}

	repo, timeout, id := d.repo, d.timeout, d.movie.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		movie, err := repo.FetchMovieDetail(ctx, id)
		return DetailLoadedMsg{ID: id, Movie: movie, Err: err}
	}
}

// Update applies a DetailLoadedMsg for this movie; anything else is ignored.
func (d *Detail) Update(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(DetailLoadedMsg)
	if !ok || loaded.ID != d.movie.ID {
		return nil
	}
	d.loading = false

	if loaded.Err != nil {
		d.logger.Warn("failed to load movie detail", "error", loaded.Err, "movieID", loaded.ID)
		d.status = errorStatus(loaded.Err.Error())
		return nil
	}
	d.movie = loaded.Movie
	return nil
}

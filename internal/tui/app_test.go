package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/popcorn/internal/browse"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/log"
)

type fakeRepo struct {
	mu sync.Mutex

	pages    map[int]domain.MoviePage
	pageErrs map[int]error
	search map[string][]domain.Movie
	detail domain.Movie
	cached []domain.Movie

	popularCalls []int
	clearCalls   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pages:    make(map[int]domain.MoviePage),
		pageErrs: make(map[int]error),
		search:   make(map[string][]domain.Movie),
	}
}

func (r *fakeRepo) FetchPopularMovies(ctx context.Context, page int) (domain.MoviePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.popularCalls = append(r.popularCalls, page)
	if err, ok := r.pageErrs[page]; ok {
		delete(r.pageErrs, page)
		return domain.MoviePage{}, err
	}
	p := r.pages[page]
	p.Page = page
	return p, nil
}

func (r *fakeRepo) FetchMovieDetail(ctx context.Context, id int) (domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.detail, nil
}

func (r *fakeRepo) SearchMovies(ctx context.Context, query string, page int) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.search[query], nil
}

func (r *fakeRepo) GetCachedMovies(ctx context.Context) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cached, nil
}

func (r *fakeRepo) CachedCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cached), nil
}

func (r *fakeRepo) ClearCache() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearCalls++
	r.cached = nil
	return nil
}

func movies(titles ...string) []domain.Movie {
	out := make([]domain.Movie, len(titles))
	for i, title := range titles {
		out[i] = domain.Movie{ID: i + 1, Title: title}
	}
	return out
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(repo *fakeRepo) Model {
	m := NewModel(repo, Options{Debounce: time.Millisecond}, log.NullLogger())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// collect runs cmd and any batched commands, returning the messages produced.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle runs cmd and feeds every catalog result back into the model.
// Timers and cursor blinks are dropped.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case browse.PageLoadedMsg, browse.SearchResultsMsg, browse.CachedLoadedMsg,
			browse.CacheClearedMsg, browse.DetailLoadedMsg:
			var next tea.Cmd
			m, next = send(t, m, msg)
			m = settle(t, m, next)
		}
	}
	return m
}

func loaded(t *testing.T, repo *fakeRepo) Model {
	t.Helper()
	m := newTestModel(repo)
	m, cmd := send(t, m, press("r"))
	return settle(t, m, cmd)
}

func TestModel_RefreshLoadsFirstPage(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: movies("Heat", "Alien", "Ran")}

	m := loaded(t, repo)

	assert.Equal(t, 3, m.MovieList.ItemCount())
	assert.False(t, m.list.Loading())
	view := m.View()
	assert.Contains(t, view, "Popular Movies")
	assert.Contains(t, view, "3 movies")
}

func TestModel_ScrollingToTheEndLoadsNextPage(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: movies("Heat", "Alien")}
	repo.pages[2] = domain.MoviePage{Movies: []domain.Movie{{ID: 3, Title: "Ran"}, {ID: 4, Title: "Ikiru"}}}
	m := loaded(t, repo)

	m, cmd := send(t, m, press("G"))
	require.NotNil(t, cmd)
	m = settle(t, m, cmd)

	assert.Equal(t, 4, m.MovieList.ItemCount())
	assert.Equal(t, 1, m.MovieList.SelectedIndex(), "appending keeps the cursor")
	assert.Equal(t, []int{1, 2}, repo.popularCalls)
}

func TestModel_DownAtBottomRetriesFailedPage(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: movies("Heat", "Alien")}
	repo.pages[2] = domain.MoviePage{Movies: []domain.Movie{{ID: 3, Title: "Ran"}, {ID: 4, Title: "Ikiru"}}}
	repo.pageErrs[2] = domain.NewServerError(503)
	m := loaded(t, repo)

	m, cmd := send(t, m, press("G"))
	m = settle(t, m, cmd)
	require.Equal(t, 2, m.MovieList.ItemCount())
	assert.Equal(t, "Server error with status code: 503", m.list.Status().Text)
	assert.False(t, m.list.Loading())

	// cursor is already on the last row
	m, cmd = send(t, m, press("j"))
	require.NotNil(t, cmd)
	m = settle(t, m, cmd)

	assert.Equal(t, []int{1, 2, 2}, repo.popularCalls)
	assert.Equal(t, 4, m.MovieList.ItemCount())
}

func TestModel_UpAtBottomDoesNotLoad(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: movies("Heat")}
	repo.pageErrs[2] = domain.NewServerError(503)
	m := loaded(t, repo)

	m, cmd := send(t, m, press("k"))
	m = settle(t, m, cmd)

	assert.Equal(t, []int{1}, repo.popularCalls)
}

func TestModel_OfflineShowsCachedNotice(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: movies("Heat"), FromCache: true}

	m := loaded(t, repo)

	assert.Equal(t, 1, m.MovieList.ItemCount())
	assert.Contains(t, m.View(), "offline mode")
}

func TestModel_DetailOpenAndBack(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: movies("Heat")}
	repo.detail = domain.Movie{ID: 1, Title: "Heat", Overview: domain.Ptr("A crew of thieves.")}
	m := loaded(t, repo)

	m, cmd := send(t, m, press("enter"))
	assert.Equal(t, StateDetail, m.State)
	m = settle(t, m, cmd)

	require.NotNil(t, m.detail)
	assert.False(t, m.detail.Loading())
	assert.Contains(t, m.View(), "A crew of thieves.")

	m, _ = send(t, m, press("h"))
	assert.Equal(t, StateBrowsing, m.State)
	assert.Nil(t, m.detail)
}

func TestModel_SearchFlow(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: movies("Heat", "Alien")}
	repo.search["ma"] = movies("The Matrix")
	m := loaded(t, repo)

	m, _ = send(t, m, press("/"))
	require.Equal(t, StateSearching, m.State)

	m, _ = send(t, m, press("m"))
	m, cmd := send(t, m, press("a"))
	assert.True(t, m.list.Searching())
	m = settle(t, m, cmd)

	assert.Equal(t, 1, m.MovieList.ItemCount())
	movie, ok := m.MovieList.SelectedMovie()
	require.True(t, ok)
	assert.Equal(t, "The Matrix", movie.Title)

	m, _ = send(t, m, press("enter"))
	assert.Equal(t, StateBrowsing, m.State)
	assert.Contains(t, m.View(), `Results for "ma"`)

	m, cmd = send(t, m, press("esc"))
	m = settle(t, m, cmd)
	assert.False(t, m.list.Searching())
	assert.Equal(t, 2, m.MovieList.ItemCount())
}

func TestModel_SearchTakesFocusFromList(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: movies("Heat", "Alien", "Ran")}
	m := loaded(t, repo)
	assert.Contains(t, m.View(), "1 of 3 movies")

	m, _ = send(t, m, press("/"))
	require.True(t, m.SearchBar.Focused())
	assert.NotContains(t, m.View(), "1 of 3 movies")

	m, _ = send(t, m, press("esc"))
	require.Equal(t, StateBrowsing, m.State)
	assert.False(t, m.SearchBar.Focused())

	m, _ = send(t, m, press("j"))
	assert.Equal(t, 1, m.MovieList.SelectedIndex(), "list has focus again")
	assert.Contains(t, m.View(), "2 of 3 movies")
}

func TestModel_QuitIsTypedIntoSearch(t *testing.T) {
	m := newTestModel(newFakeRepo())

	m, _ = send(t, m, press("/"))
	m, _ = send(t, m, press("q"))

	assert.Equal(t, StateSearching, m.State)
	assert.Equal(t, "q", m.SearchBar.Value())
}

func TestModel_ClearCacheNeedsConfirmation(t *testing.T) {
	repo := newFakeRepo()
	repo.cached = movies("A", "B", "C")
	m := newTestModel(repo)

	m, _ = send(t, m, press("X"))
	require.Equal(t, StateConfirmClear, m.State)
	assert.Contains(t, m.View(), "Clear Cache?")

	m, cmd := send(t, m, press("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, StateBrowsing, m.State)
	assert.Zero(t, repo.clearCalls)

	m, _ = send(t, m, press("X"))
	m, cmd = send(t, m, press("y"))
	m = settle(t, m, cmd)

	assert.Equal(t, 1, repo.clearCalls)
	assert.Contains(t, m.View(), "Cleared 3 cached movies")

	m, _ = send(t, m, press("d"))
	assert.NotContains(t, m.View(), "Cleared 3 cached movies")
}

func TestModel_ShowCached(t *testing.T) {
	repo := newFakeRepo()
	repo.cached = movies("A", "B")
	m := newTestModel(repo)

	m, cmd := send(t, m, press("c"))
	m = settle(t, m, cmd)

	assert.Equal(t, 2, m.MovieList.ItemCount())
	assert.Contains(t, m.View(), "Showing 2 cached movies")
}

func TestModel_HelpReturnsToPreviousState(t *testing.T) {
	m := newTestModel(newFakeRepo())

	m, _ = send(t, m, press("?"))
	require.Equal(t, StateHelp, m.State)
	assert.Contains(t, m.View(), "Press any key to return")

	m, _ = send(t, m, press("x"))
	assert.Equal(t, StateBrowsing, m.State)
}

func TestModel_TickAdvancesSpinner(t *testing.T) {
	m := newTestModel(newFakeRepo())

	m, cmd := send(t, m, TickMsg{})
	assert.Equal(t, 1, m.SpinnerFrame)
	assert.NotNil(t, cmd)
}

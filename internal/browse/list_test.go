package browse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/popcorn/internal/domain"
)

// fakeRepo is a scripted domain.MovieRepository that records calls.
type fakeRepo struct {
	mu sync.Mutex

	pages     map[int]domain.MoviePage
	pageErr   error
	search    map[string][]domain.Movie
	searchErr error
	detail    domain.Movie
	detailErr error
	cached    []domain.Movie
	cacheErr  error
	clearErr  error
	countErr  error

	popularCalls []int
	searchCalls  []string
	clearCalls   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pages:  make(map[int]domain.MoviePage),
		search: make(map[string][]domain.Movie),
	}
}

func (r *fakeRepo) FetchPopularMovies(ctx context.Context, page int) (domain.MoviePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.popularCalls = append(r.popularCalls, page)
	if r.pageErr != nil {
		return domain.MoviePage{}, r.pageErr
	}
	p := r.pages[page]
	p.Page = page
	return p, nil
}

func (r *fakeRepo) FetchMovieDetail(ctx context.Context, id int) (domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detailErr != nil {
		return domain.Movie{}, r.detailErr
	}
	return r.detail, nil
}

func (r *fakeRepo) SearchMovies(ctx context.Context, query string, page int) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchCalls = append(r.searchCalls, query)
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.search[query], nil
}

func (r *fakeRepo) GetCachedMovies(ctx context.Context) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cached, r.cacheErr
}

func (r *fakeRepo) CachedCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return len(r.cached), nil
}

func (r *fakeRepo) ClearCache() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearCalls++
	if r.clearErr != nil {
		return r.clearErr
	}
	r.cached = nil
	return nil
}

func (r *fakeRepo) searches() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.searchCalls...)
}

func moviesWithIDs(idList ...int) []domain.Movie {
	out := make([]domain.Movie, len(idList))
	for i, id := range idList {
		out[i] = domain.Movie{ID: id, Title: "Movie"}
	}
	return out
}

func ids(list []domain.Movie) []int {
	out := make([]int, len(list))
	for i, m := range list {
		out[i] = m.ID
	}
	return out
}

// run executes cmd and feeds its message back into the list.
func run(t *testing.T, l *List, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	if msg := cmd(); msg != nil {
		l.Update(msg)
	}
}

func TestNewList_Defaults(t *testing.T) {
	l := NewList(newFakeRepo(), nil)

	assert.Equal(t, 1, l.Page())
	assert.True(t, l.HasMore())
	assert.False(t, l.Loading())
	assert.Empty(t, l.Movies())
	assert.True(t, l.Status().IsZero())
	assert.Equal(t, DefaultDebounce, l.debounce)
}

func TestLoad_AppendsAndAdvances(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1, 2)}
	repo.pages[2] = domain.MoviePage{Movies: moviesWithIDs(3, 4)}
	l := NewList(repo, nil)

	run(t, l, l.Load(false))
	run(t, l, l.Load(false))

	assert.Equal(t, []int{1, 2, 3, 4}, ids(l.Movies()))
	assert.Equal(t, 3, l.Page())
	assert.True(t, l.HasMore())
	assert.False(t, l.Loading())
	assert.Equal(t, []int{1, 2}, repo.popularCalls)
}

func TestLoad_RefreshResets(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1, 2)}
	repo.pages[2] = domain.MoviePage{Movies: moviesWithIDs(3)}
	l := NewList(repo, nil)

	run(t, l, l.Load(false))
	run(t, l, l.Load(false))
	run(t, l, l.Load(true))

	assert.Equal(t, []int{1, 2}, ids(l.Movies()))
	assert.Equal(t, 2, l.Page())
	assert.Equal(t, []int{1, 2, 1}, repo.popularCalls)
}

func TestLoad_IgnoredWhileLoading(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1)}
	l := NewList(repo, nil)

	first := l.Load(false)
	require.NotNil(t, first)
	assert.True(t, l.Loading())

	assert.Nil(t, l.Load(false))
	assert.Nil(t, l.Load(true))

	run(t, l, first)
	assert.Equal(t, []int{1}, repo.popularCalls)
	assert.Equal(t, []int{1}, ids(l.Movies()))
}

func TestLoad_EmptyPageExhaustsListing(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1, 2)}
	l := NewList(repo, nil)

	run(t, l, l.Load(false))
	run(t, l, l.Load(false))

	assert.False(t, l.HasMore())
	assert.Equal(t, []int{1, 2}, ids(l.Movies()), "existing list is kept")
	assert.True(t, l.Status().IsZero(), "an empty page is not an error")
	assert.Equal(t, 3, l.Page())
}

func TestLoad_ErrorKeepsList(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1, 2)}
	l := NewList(repo, nil)
	run(t, l, l.Load(false))

	repo.pageErr = domain.NewServerError(503)
	run(t, l, l.Load(false))

	assert.Equal(t, []int{1, 2}, ids(l.Movies()))
	assert.Equal(t, 2, l.Page(), "cursor only advances on success")
	assert.False(t, l.Loading())
	assert.True(t, l.Status().IsError())
	assert.Equal(t, "Server error with status code: 503", l.Status().Text)

	l.DismissStatus()
	assert.True(t, l.Status().IsZero())
}

func TestLoad_OfflineShowsCache(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(9, 8, 7), FromCache: true}
	l := NewList(repo, nil)

	run(t, l, l.Load(true))

	assert.Equal(t, []int{9, 8, 7}, ids(l.Movies()))
	assert.False(t, l.HasMore())
	assert.Equal(t, 1, l.Page())
	assert.Equal(t, Status{Text: "Showing cached movies (offline mode)", Kind: StatusInfo}, l.Status())
}

func TestLoad_OfflineEmptyCache(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1)}
	l := NewList(repo, nil)
	run(t, l, l.Load(false))

	repo.pages[2] = domain.MoviePage{FromCache: true}
	run(t, l, l.Load(false))

	assert.Equal(t, []int{1}, ids(l.Movies()))
	assert.True(t, l.Status().IsError())
	assert.Contains(t, l.Status().Text, "No internet connection")
}

func TestLoadMoreIfNeeded(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1, 2, 3)}
	repo.pages[2] = domain.MoviePage{Movies: moviesWithIDs(4)}
	l := NewList(repo, nil)
	run(t, l, l.Load(false))

	for _, m := range l.Movies()[:2] {
		assert.Nil(t, l.LoadMoreIfNeeded(m))
	}
	assert.Equal(t, []int{1}, repo.popularCalls, "non-last rows never trigger a fetch")
	assert.Equal(t, 2, l.Page())
	assert.False(t, l.Loading())

	last := l.Movies()[2]
	cmd := l.LoadMoreIfNeeded(last)
	require.NotNil(t, cmd)
	assert.Nil(t, l.LoadMoreIfNeeded(last), "second trigger while loading is ignored")
	run(t, l, cmd)

	assert.Equal(t, []int{1, 2, 3, 4}, ids(l.Movies()))
}

func TestLoadMoreIfNeeded_StopsWhenExhausted(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1)}
	l := NewList(repo, nil)
	run(t, l, l.Load(false))
	run(t, l, l.LoadMoreIfNeeded(l.Movies()[0]))

	assert.False(t, l.HasMore())
	assert.Nil(t, l.LoadMoreIfNeeded(l.Movies()[0]))
	assert.Nil(t, NewList(repo, nil).LoadMoreIfNeeded(domain.Movie{ID: 1}))
}

func TestSetQuery_DebounceCollapsesKeystrokes(t *testing.T) {
	repo := newFakeRepo()
	repo.search["sta"] = moviesWithIDs(11, 12)
	l := NewList(repo, nil, WithDebounce(20*time.Millisecond))

	cmds := []tea.Cmd{l.SetQuery("s"), l.SetQuery("st"), l.SetQuery("sta")}

	msgs := make([]tea.Msg, len(cmds))
	var wg sync.WaitGroup
	for i, cmd := range cmds {
		require.NotNil(t, cmd)
		wg.Add(1)
		go func(i int, cmd tea.Cmd) {
			defer wg.Done()
			msgs[i] = cmd()
		}(i, cmd)
	}
	wg.Wait()

	assert.Nil(t, msgs[0])
	assert.Nil(t, msgs[1])
	require.NotNil(t, msgs[2])
	assert.Equal(t, []string{"sta"}, repo.searches())

	for _, msg := range msgs {
		if msg != nil {
			l.Update(msg)
		}
	}
	assert.Equal(t, []int{11, 12}, ids(l.Movies()))
	assert.True(t, l.Searching())
	assert.False(t, l.Loading())
	assert.Equal(t, "sta", l.Query())
}

func TestSetQuery_CancelDuringWait(t *testing.T) {
	repo := newFakeRepo()
	l := NewList(repo, nil, WithDebounce(time.Hour))

	pending := l.SetQuery("matrix")
	done := make(chan tea.Msg, 1)
	go func() { done <- pending() }()

	l.ClearSearch()

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("canceled search did not return")
	}
	assert.Empty(t, repo.searches())
	assert.False(t, l.Searching())
	assert.Empty(t, l.Query())
}

func TestSetQuery_StaleResultsDropped(t *testing.T) {
	repo := newFakeRepo()
	repo.search["old"] = moviesWithIDs(1)
	repo.search["new"] = moviesWithIDs(2)
	l := NewList(repo, nil, WithDebounce(0))

	oldCmd := l.SetQuery("old")
	// The request for "old" is already sent when "new" arrives.
	oldMsg := oldCmd()
	newCmd := l.SetQuery("new")

	l.Update(oldMsg)
	assert.Empty(t, l.Movies(), "superseded search must not touch the list")
	assert.True(t, l.Loading(), "the newer search still owns loading")

	run(t, l, newCmd)
	assert.Equal(t, []int{2}, ids(l.Movies()))
	assert.False(t, l.Loading())
}

func TestSetQuery_Failure(t *testing.T) {
	repo := newFakeRepo()
	repo.searchErr = domain.NewDecodeError(errors.New("unexpected token"))
	l := NewList(repo, nil, WithDebounce(0))
	l.movies = moviesWithIDs(5)

	run(t, l, l.SetQuery("x"))

	assert.Equal(t, []int{5}, ids(l.Movies()))
	assert.True(t, l.Status().IsError())
	assert.Contains(t, l.Status().Text, "Search failed: ")
	assert.False(t, l.Loading())
}

func TestSetQuery_EmptyReturnsToBrowsing(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1, 2)}
	l := NewList(repo, nil, WithDebounce(time.Hour))

	l.SetQuery("star")
	require.True(t, l.Searching())

	cmd := l.SetQuery("   ")
	require.NotNil(t, cmd, "clearing a pending search must not leave the list stuck loading")
	assert.False(t, l.Searching())
	run(t, l, cmd)

	assert.Equal(t, []int{1, 2}, ids(l.Movies()))
	assert.Empty(t, repo.searches())
}

func TestSetQuery_SupersedesPageLoad(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = domain.MoviePage{Movies: moviesWithIDs(1)}
	repo.search["q"] = moviesWithIDs(50)
	l := NewList(repo, nil, WithDebounce(0))

	loadCmd := l.Load(false)
	searchCmd := l.SetQuery("q")

	run(t, l, searchCmd)
	run(t, l, loadCmd)

	assert.Equal(t, []int{50}, ids(l.Movies()), "late page must not land in search results")
}

func TestShowCached(t *testing.T) {
	repo := newFakeRepo()
	repo.cached = moviesWithIDs(3, 1)
	l := NewList(repo, nil)

	run(t, l, l.ShowCached())
	assert.Equal(t, []int{3, 1}, ids(l.Movies()))
	assert.False(t, l.HasMore())
	assert.Equal(t, StatusInfo, l.Status().Kind)

	repo.cacheErr = errors.New("database not open")
	run(t, l, l.ShowCached())
	assert.True(t, l.Status().IsError())
	assert.Equal(t, []int{3, 1}, ids(l.Movies()))
}

func TestClearCache(t *testing.T) {
	repo := newFakeRepo()
	repo.cached = moviesWithIDs(1, 2, 3)
	l := NewList(repo, nil)

	run(t, l, l.ClearCache())
	assert.Equal(t, Status{Text: "Cleared 3 cached movies", Kind: StatusInfo}, l.Status())

	repo.clearErr = errors.New("failed to clear cache: disk full")
	run(t, l, l.ClearCache())
	assert.True(t, l.Status().IsError())
	assert.Equal(t, "failed to clear cache: disk full", l.Status().Text)
	assert.Equal(t, 2, repo.clearCalls)
}

func TestClearCacheWithoutCount(t *testing.T) {
	repo := newFakeRepo()
	repo.cached = moviesWithIDs(1, 2, 3)
	repo.countErr = errors.New("failed to read cache: bucket missing")
	l := NewList(repo, nil)

	run(t, l, l.ClearCache())
	assert.Equal(t, Status{Text: "Cleared cached movies", Kind: StatusInfo}, l.Status())
	assert.Equal(t, 1, repo.clearCalls)
	assert.Empty(t, repo.cached)
}

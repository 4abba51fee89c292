package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/popcorn/internal/domain"
)

const (
	// DefaultDebounce is the quiet period before a search query is sent
	DefaultDebounce = 500 * time.Millisecond

	defaultTimeout = 30 * time.Second

	offlineStatus = "Showing cached movies (offline mode)"
)

// Option configures a List.
type Option func(*List)

// WithDebounce sets the search debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(l *List) {
		if d >= 0 {
			l.debounce = d
		}
	}
}

// WithTimeout bounds each repository call made by a command.
func WithTimeout(d time.Duration) Option {
	return func(l *List) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// searchToken identifies the one pending search. Canceling it stops the
// debounce wait; a response that already left is discarded by id.
type searchToken struct {
	id     uint64
	cancel context.CancelFunc
}

// List drives the popular listing and search results shown by the UI.
// It is not safe for concurrent use: the bubbletea loop owns it, and the
// commands it returns only touch copies of its fields.
type List struct {
	repo     domain.MovieRepository
	logger   *slog.Logger
	debounce time.Duration
	timeout  time.Duration

	page    int
	hasMore bool
	movies  []domain.Movie
	loading bool
	status  Status

	query     string
	searching bool
	search    *searchToken
	lastToken uint64

	// seq invalidates in-flight page and cache loads when the list is
	// repurposed (search started, cached view opened).
	seq uint64
}

// NewList creates a List positioned before the first page.
func NewList(repo domain.MovieRepository, logger *slog.Logger, opts ...Option) *List {
	if logger == nil {
		logger = slog.Default()
	}
	l := &List{
		repo:     repo,
		logger:   logger,
		debounce: DefaultDebounce,
		timeout:  defaultTimeout,
		page:     1,
		hasMore:  true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Accessors

func (l *List) Movies() []domain.Movie { return l.movies }
func (l *List) Page() int              { return l.page }
func (l *List) HasMore() bool          { return l.hasMore }
func (l *List) Loading() bool          { return l.loading }
func (l *List) Status() Status         { return l.status }
func (l *List) Query() string          { return l.query }
func (l *List) Searching() bool        { return l.searching }

// DismissStatus clears the current status message.
func (l *List) DismissStatus() {
	l.status = Status{}
}

// Load fetches the next page of the popular listing. A call while a load is
// in flight is ignored. Refresh restarts from page 1 with an empty list.
func (l *List) Load(refresh bool) tea.Cmd {
	if l.loading {
		return nil
	}
	if refresh {
		l.page = 1
		l.hasMore = true
		l.movies = nil
	}
	l.loading = true
	l.status = Status{}
	l.seq++

	repo, timeout := l.repo, l.timeout
	page, seq := l.page, l.seq
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := repo.FetchPopularMovies(ctx, page)
		return PageLoadedMsg{Page: result, Refresh: refresh, Err: err, seq: seq}
	}
}

// LoadMoreIfNeeded loads the next page when movie is the last row shown,
// more pages are expected and nothing is loading.
func (l *List) LoadMoreIfNeeded(movie domain.Movie) tea.Cmd {
	if len(l.movies) == 0 || l.searching {
		return nil
	}
	if movie.ID != l.movies[len(l.movies)-1].ID || !l.hasMore || l.loading {
		return nil
	}
	return l.Load(false)
}

// SetQuery switches to search mode. The previous pending search is canceled
// before anything else happens. An empty query returns to browsing.
func (l *List) SetQuery(query string) tea.Cmd {
	l.cancelSearch()
	l.query = query

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		l.searching = false
		return l.Load(true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.lastToken++
	l.search = &searchToken{id: l.lastToken, cancel: cancel}
	l.seq++
	l.searching = true
	l.loading = true
	l.status = Status{}

	return l.searchCmd(ctx, l.search.id, trimmed)
}

// ClearSearch leaves search mode and reloads the listing from page 1.
func (l *List) ClearSearch() tea.Cmd {
	l.cancelSearch()
	l.query = ""
	l.searching = false
	return l.Load(true)
}

// ShowCached replaces the list with everything in the cache.
func (l *List) ShowCached() tea.Cmd {
	l.cancelSearch()
	l.query = ""
	l.searching = false
	l.loading = true
	l.status = Status{}
	l.seq++

	repo, timeout, seq := l.repo, l.timeout, l.seq
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		movies, err := repo.GetCachedMovies(ctx)
		return CachedLoadedMsg{Movies: movies, Err: err, seq: seq}
	}
}

// ClearCache empties the cache. The displayed list is left alone.
func (l *List) ClearCache() tea.Cmd {
	repo, logger := l.repo, l.logger
	return func() tea.Msg {
		removed, countErr := repo.CachedCount()
		if countErr != nil {
			logger.Warn("failed to count cached movies", "error", countErr)
		}
		if err := repo.ClearCache(); err != nil {
			return CacheClearedMsg{Err: err}
		}
		return CacheClearedMsg{Removed: removed, Counted: countErr == nil}
	}
}

// Update applies the result of a command issued by this List.
func (l *List) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		l.handlePage(msg)
	case SearchResultsMsg:
		l.handleSearch(msg)
	case CachedLoadedMsg:
		l.handleCached(msg)
	case CacheClearedMsg:
		if msg.Err != nil {
			l.status = errorStatus(msg.Err.Error())
			return nil
		}
		if !msg.Counted {
			l.status = infoStatus("Cleared cached movies")
			return nil
		}
		l.status = infoStatus(fmt.Sprintf("Cleared %d cached movies", msg.Removed))
	}
	return nil
}

func (l *List) handlePage(msg PageLoadedMsg) {
	if msg.seq != l.seq {
		l.logger.Debug("dropping superseded page", "page", msg.Page.Page)
		return
	}
	l.loading = false

	if msg.Err != nil {
		l.status = errorStatus(msg.Err.Error())
		return
	}

	page := msg.Page
	if page.FromCache {
		if len(page.Movies) == 0 {
			l.status = errorStatus(domain.NewConnectivityError(nil).Error())
			return
		}
		l.movies = page.Movies
		l.hasMore = false
		l.status = infoStatus(offlineStatus)
		return
	}

	if msg.Refresh {
		l.movies = page.Movies
	} else {
		l.movies = append(l.movies, page.Movies...)
	}
	l.page++
	l.hasMore = len(page.Movies) > 0
}

func (l *List) handleSearch(msg SearchResultsMsg) {
	if l.search == nil || msg.token != l.search.id {
		l.logger.Debug("dropping stale search results", "query", msg.Query)
		return
	}
	l.search.cancel()
	l.search = nil
	l.loading = false

	if msg.Err != nil {
		l.status = errorStatus("Search failed: " + msg.Err.Error())
		return
	}
	l.movies = msg.Movies
}

func (l *List) handleCached(msg CachedLoadedMsg) {
	if msg.seq != l.seq {
		return
	}
	l.loading = false

	if msg.Err != nil {
		l.status = errorStatus(msg.Err.Error())
		return
	}
	l.movies = msg.Movies
	l.page = 1
	l.hasMore = false
	if len(msg.Movies) == 0 {
		l.status = infoStatus("No cached movies")
		return
	}
	l.status = infoStatus(fmt.Sprintf("Showing %d cached movies", len(msg.Movies)))
}

// cancelSearch cancels the pending search, if any. The loading flag it set
// is released so the caller can start the next operation.
func (l *List) cancelSearch() {
	if l.search == nil {
		return
	}
	l.search.cancel()
	l.search = nil
	l.loading = false
}

func (l *List) searchCmd(ctx context.Context, token uint64, query string) tea.Cmd {
	repo, debounce, timeout := l.repo, l.debounce, l.timeout
	return func() tea.Msg {
		if ctx.Err() != nil {
			return nil
		}

		timer := time.NewTimer(debounce)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		// Once sent, the request runs to completion; a newer query only
		// causes its result to be dropped in Update.
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		movies, err := repo.SearchMovies(reqCtx, query, 1)
		return SearchResultsMsg{Query: query, Movies: movies, Err: err, token: token}
	}
}

package browse

import (
	"github.com/mmcdole/popcorn/internal/domain"
)

// Message types produced by List and Detail commands

// PageLoadedMsg carries the result of a popular-listing fetch
type PageLoadedMsg struct {
	Page    domain.MoviePage
	Refresh bool
	Err     error

	seq uint64
}

// SearchResultsMsg carries the result of a debounced search
type SearchResultsMsg struct {
	Query  string
	Movies []domain.Movie
	Err    error

	token uint64
}

// CachedLoadedMsg carries the cache contents for the offline view
type CachedLoadedMsg struct {
	Movies []domain.Movie
	Err    error

	seq uint64
}

// CacheClearedMsg signals that an explicit cache clear finished.
// Removed is only meaningful when Counted is set.
type CacheClearedMsg struct {
	Removed int
	Counted bool
	Err     error
}

// DetailLoadedMsg carries a refreshed movie for the detail view
type DetailLoadedMsg struct {
	ID    int
	Movie domain.Movie
	Err   error
}

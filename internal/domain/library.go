package domain

import "context"

// CatalogCommands: operations that may hit the network.
// Must be called from tea.Cmd functions, never from View().
type CatalogCommands interface {
	// FetchPopularMovies returns a listing page, falling back to the cache when offline
	FetchPopularMovies(ctx context.Context, page int) (MoviePage, error)

	// FetchMovieDetail returns a single movie, falling back to the cached copy when offline
	FetchMovieDetail(ctx context.Context, id int) (Movie, error)

	// SearchMovies queries the server only; results are never cached
	SearchMovies(ctx context.Context, query string, page int) ([]Movie, error)
}

// CatalogQueries: cache-only reads and explicit cache maintenance.
type CatalogQueries interface {
	GetCachedMovies(ctx context.Context) ([]Movie, error)
	CachedCount() (int, error)
	ClearCache() error
}

// MovieRepository is everything the list and detail orchestrators need.
type MovieRepository interface {
	CatalogCommands
	CatalogQueries
}

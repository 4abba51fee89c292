package domain

import (
	"context"
)

// MovieClient is the remote catalog API (implemented by the tmdb client).
// Failures are *APIError values of the kinds in errors.go.
type MovieClient interface {
	// PopularMovies returns one page of the popular-movies listing
	PopularMovies(ctx context.Context, page int) (*MovieResponse, error)

	// MovieDetail returns a single movie by id
	MovieDetail(ctx context.Context, id int) (*Movie, error)

	// SearchMovies returns one page of title search results
	SearchMovies(ctx context.Context, query string, page int) (*MovieResponse, error)
}

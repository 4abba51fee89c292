package tmdb

import (
	"fmt"
	"net/url"
	"strconv"
)

// EndpointKind identifies which API route an Endpoint targets
type EndpointKind int

const (
	KindPopularMovies EndpointKind = iota
	KindMovieDetail
	KindSearchMovies
)

// Endpoint describes one GET request against the catalog API.
// Build it with PopularMovies, MovieDetail or SearchMovies.
type Endpoint struct {
	Kind EndpointKind
	Page int    // Popular, Search
	ID   int    // Detail
	Term string // Search
}

// PopularMovies targets page of the popular-movies listing
func PopularMovies(page int) Endpoint {
	return Endpoint{Kind: KindPopularMovies, Page: page}
}

// MovieDetail targets a single movie
func MovieDetail(id int) Endpoint {
	return Endpoint{Kind: KindMovieDetail, ID: id}
}

// SearchMovies targets page of the title search results for query
func SearchMovies(query string, page int) Endpoint {
	return Endpoint{Kind: KindSearchMovies, Term: query, Page: page}
}

// Path returns the URL path for the endpoint
func (e Endpoint) Path() string {
	switch e.Kind {
	case KindPopularMovies:
		return "/3/movie/popular"
	case KindMovieDetail:
		return fmt.Sprintf("/3/movie/%d", e.ID)
	case KindSearchMovies:
		return "/3/search/movie"
	default:
		return ""
	}
}

// Query returns the query parameters for the endpoint
func (e Endpoint) Query() url.Values {
	q := url.Values{}
	switch e.Kind {
	case KindPopularMovies:
		q.Set("page", strconv.Itoa(e.Page))
	case KindSearchMovies:
		q.Set("query", e.Term)
		q.Set("page", strconv.Itoa(e.Page))
	}
	return q
}

func (e Endpoint) String() string {
	switch e.Kind {
	case KindPopularMovies:
		return fmt.Sprintf("popular(page=%d)", e.Page)
	case KindMovieDetail:
		return fmt.Sprintf("detail(id=%d)", e.ID)
	case KindSearchMovies:
		return fmt.Sprintf("search(query=%q, page=%d)", e.Term, e.Page)
	default:
		return "unknown"
	}
}

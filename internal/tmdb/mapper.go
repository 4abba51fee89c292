package tmdb

import "github.com/mmcdole/popcorn/internal/domain"

// MapMovie converts an API movie object to a domain.Movie
func MapMovie(r MovieResult) domain.Movie {
	return domain.Movie{
		ID:               r.ID,
		Title:            r.Title,
		Overview:         r.Overview,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		ReleaseDate:      r.ReleaseDate,
		OriginalLanguage: r.OriginalLanguage,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		Adult:            r.Adult,
	}
}

// MapMovies converts a slice of API movie objects, preserving order
func MapMovies(results []MovieResult) []domain.Movie {
	movies := make([]domain.Movie, 0, len(results))
	for _, r := range results {
		movies = append(movies, MapMovie(r))
	}
	return movies
}

// MapResponse converts a listing wrapper to a domain.MovieResponse
func MapResponse(r MovieListResponse) *domain.MovieResponse {
	return &domain.MovieResponse{
		Page:         r.Page,
		Results:      MapMovies(r.Results),
		TotalPages:   r.TotalPages,
		TotalResults: r.TotalResults,
	}
}

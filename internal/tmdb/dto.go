package tmdb

// MovieResult is a movie object as sent by the API (listing entries and detail)
type MovieResult struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	Overview         *string  `json:"overview,omitempty"`
	PosterPath       *string  `json:"poster_path,omitempty"`
	BackdropPath     *string  `json:"backdrop_path,omitempty"`
	ReleaseDate      *string  `json:"release_date,omitempty"`
	VoteAverage      *float64 `json:"vote_average,omitempty"`
	VoteCount        *int     `json:"vote_count,omitempty"`
	Popularity       *float64 `json:"popularity,omitempty"`
	OriginalLanguage *string  `json:"original_language,omitempty"`
	Adult            *bool    `json:"adult,omitempty"`
}

// MovieListResponse is the paginated listing wrapper
type MovieListResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

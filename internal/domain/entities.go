package domain

import (
	"fmt"
	"strings"
)

// NotAvailable is shown in place of a derived field whose source is missing.
const NotAvailable = "N/A"

// Movie is a single catalog entry as served by the remote API.
// Optional fields are pointers so that "absent" differs from a zero value.
type Movie struct {
	ID               int    // Stable external identifier
	Title            string // Display title (required)
	Overview         *string
	PosterPath       *string // Relative image path, e.g. "/abc.jpg"
	BackdropPath     *string
	ReleaseDate      *string // "YYYY-MM-DD"
	OriginalLanguage *string // ISO 639-1 code
	VoteAverage      *float64
	VoteCount        *int
	Popularity       *float64
	Adult            *bool
}

// MovieResponse is one page of a paginated listing. Results keep server order.
type MovieResponse struct {
	Page         int
	Results      []Movie
	TotalPages   int
	TotalResults int
}

// PosterURL returns the full poster image URL, or "" if the movie has no poster.
func (m Movie) PosterURL(imageBaseURL, size string) string {
	return imageURL(imageBaseURL, size, m.PosterPath)
}

// BackdropURL returns the full backdrop image URL, or "" if the movie has no backdrop.
func (m Movie) BackdropURL(imageBaseURL, size string) string {
	return imageURL(imageBaseURL, size, m.BackdropPath)
}

func imageURL(base, size string, path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + size + *path
}

// ReleaseYear returns the leading four-digit year of the release date
func (m Movie) ReleaseYear() string {
	if m.ReleaseDate == nil {
		return NotAvailable
	}
	date := *m.ReleaseDate
	if len(date) < 4 {
		return NotAvailable
	}
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return NotAvailable
		}
	}
	if len(date) > 4 && date[4] != '-' {
		return NotAvailable
	}
	return date[:4]
}

// FormattedRating returns the vote average with one decimal place (e.g., "8.2")
func (m Movie) FormattedRating() string {
	if m.VoteAverage == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f", *m.VoteAverage)
}

// FormattedVoteCount returns the vote count in a compact form (e.g., "1.2K votes")
func (m Movie) FormattedVoteCount() string {
	if m.VoteCount == nil {
		return NotAvailable
	}
	n := *m.VoteCount
	switch {
	// Counts that would round up to 1000.0K are shown in millions
	case n >= 999_950:
		return fmt.Sprintf("%.1fM votes", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK votes", float64(n)/1_000)
	case n == 1:
		return "1 vote"
	default:
		return fmt.Sprintf("%d votes", n)
	}
}

// FormattedPopularity returns the popularity score rounded to a whole number
func (m Movie) FormattedPopularity() string {
	if m.Popularity == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.0f", *m.Popularity)
}

// LanguageCode returns the upper-cased original language code
func (m Movie) LanguageCode() string {
	if m.OriginalLanguage == nil || *m.OriginalLanguage == "" {
		return NotAvailable
	}
	return strings.ToUpper(*m.OriginalLanguage)
}

// OverviewText returns the overview or a placeholder when the server sent none
func (m Movie) OverviewText() string {
	if m.Overview == nil || strings.TrimSpace(*m.Overview) == "" {
		return "No overview available."
	}
	return *m.Overview
}

// IsAdult reports whether the movie is flagged as adult content.
func (m Movie) IsAdult() bool {
	return m.Adult != nil && *m.Adult
}

// Ptr returns a pointer to v. Used to build optional Movie fields.
func Ptr[T any](v T) *T {
	return &v
}

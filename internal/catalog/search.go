package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/popcorn/internal/domain"
)

// FindCached fuzzy-matches query against cached titles, best match first.
// Matching is case- and accent-insensitive; an empty query returns nothing.
func (s *Service) FindCached(ctx context.Context, query string) ([]domain.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	movies, err := s.GetCachedMovies(ctx)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	results := make([]domain.Movie, 0, len(ranks))
	for _, r := range ranks {
		results = append(results, movies[r.OriginalIndex])
	}
	s.logger.Debug("cache search complete", "query", query, "results", len(results))
	return results, nil
}

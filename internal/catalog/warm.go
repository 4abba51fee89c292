package catalog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/popcorn/internal/domain"
)

// WarmResult summarizes a prefetch run.
type WarmResult struct {
	Pages  int // Pages fetched from the network
	Movies int // Movies written through to the cache
}

// Warm prefetches popular pages 1..pages concurrently so they are available offline.
// It stops at the first failure; going offline midway is reported as an error
// rather than silently serving the cache.
func (s *Service) Warm(ctx context.Context, pages int, onProgress domain.ProgressFunc) (WarmResult, error) {
	if pages <= 0 {
		return WarmResult{}, fmt.Errorf("pages must be positive, got %d", pages)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.warmWorkers)

	var (
		mu     sync.Mutex
		result WarmResult
	)

	for page := 1; page <= pages; page++ {
		g.Go(func() error {
			resp, err := s.client.PopularMovies(ctx, page)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			s.cacheMovies(resp.Results)

			mu.Lock()
			result.Pages++
			result.Movies += len(resp.Results)
			if onProgress != nil {
				onProgress(result.Pages, pages)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("cache warm failed", "error", err)
		return result, err
	}
	s.logger.Info("cache warmed", "pages", result.Pages, "movies", result.Movies)
	return result, nil
}

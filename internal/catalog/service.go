package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/popcorn/internal/domain"
)

const (
	defaultRetentionDays = 30
	defaultMaxCached     = 500
	defaultWarmWorkers   = 4
)

// Option configures a Service.
type Option func(*Service)

// WithRetentionDays sets the age after which cached movies are evicted.
func WithRetentionDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.retentionDays = days
		}
	}
}

// WithMaxCached caps the number of cached movies. Zero disables the cap.
func WithMaxCached(max int) Option {
	return func(s *Service) {
		if max >= 0 {
			s.maxCached = max
		}
	}
}

// WithWarmWorkers bounds concurrent page fetches during Warm.
func WithWarmWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.warmWorkers = n
		}
	}
}

// Service orchestrates the remote client and the movie store.
// Implements domain.MovieRepository.
type Service struct {
	client domain.MovieClient
	store  domain.MovieStore
	logger *slog.Logger

	retentionDays int
	maxCached     int
	warmWorkers   int
}

// NewService creates a new catalog service.
func NewService(client domain.MovieClient, store domain.MovieStore, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		client:        client,
		store:         store,
		logger:        logger,
		retentionDays: defaultRetentionDays,
		maxCached:     defaultMaxCached,
		warmWorkers:   defaultWarmWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPopularMovies returns a page of the popular listing and writes it through
// to the cache. When the network is unreachable the whole cache is served instead.
func (s *Service) FetchPopularMovies(ctx context.Context, page int) (domain.MoviePage, error) {
	resp, err := s.client.PopularMovies(ctx, page)
	if err != nil {
		if !domain.IsNoConnectivity(err) {
			s.logger.Error("failed to fetch popular movies", "error", err, "page", page)
			return domain.MoviePage{}, err
		}

		s.logger.Warn("offline, serving cached movies", "page", page)
		cached, cacheErr := s.store.GetAll()
		if cacheErr != nil {
			s.logger.Error("failed to read cached movies", "error", cacheErr)
			return domain.MoviePage{}, errors.Join(err, cacheErr)
		}
		return domain.MoviePage{Movies: cached, Page: page, FromCache: true}, nil
	}

	s.cacheMovies(resp.Results)
	s.logger.Debug("fetched popular movies", "count", len(resp.Results), "page", page)

	return domain.MoviePage{
		Movies:     resp.Results,
		Page:       page,
		TotalPages: resp.TotalPages,
	}, nil
}

// FetchMovieDetail returns a single movie and writes it through to the cache.
// When offline the cached copy is returned; if there is none the original error is.
func (s *Service) FetchMovieDetail(ctx context.Context, id int) (domain.Movie, error) {
	movie, err := s.client.MovieDetail(ctx, id)
	if err != nil {
		if !domain.IsNoConnectivity(err) {
			s.logger.Error("failed to fetch movie detail", "error", err, "movieID", id)
			return domain.Movie{}, err
		}

		cached, found, cacheErr := s.store.GetByID(id)
		if cacheErr != nil {
			s.logger.Error("failed to read cached movie", "error", cacheErr, "movieID", id)
		}
		if !found {
			return domain.Movie{}, err
		}
		s.logger.Debug("offline, serving cached movie", "movieID", id)
		return cached, nil
	}

	s.cacheMovies([]domain.Movie{*movie})
	return *movie, nil
}

// SearchMovies queries the server. Results are query-scoped and never cached.
func (s *Service) SearchMovies(ctx context.Context, query string, page int) ([]domain.Movie, error) {
	resp, err := s.client.SearchMovies(ctx, query, page)
	if err != nil {
		s.logger.Error("search failed", "error", err, "query", query)
		return nil, err
	}
	s.logger.Debug("search complete", "query", query, "results", len(resp.Results))
	return resp.Results, nil
}

// GetCachedMovies returns the cache contents, most recently cached first.
func (s *Service) GetCachedMovies(ctx context.Context) ([]domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	movies, err := s.store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	return movies, nil
}

func (s *Service) CachedCount() (int, error) {
	return s.store.Count()
}

// ClearCache empties the cache. Failures are returned to the caller.
func (s *Service) ClearCache() error {
	if err := s.store.DeleteAll(); err != nil {
		s.logger.Error("failed to clear cache", "error", err)
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	s.logger.Info("cleared movie cache")
	return nil
}

// EvictStale removes movies older than the retention window.
func (s *Service) EvictStale(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.store.DeleteOlderThan(s.retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to evict stale movies: %w", err)
	}
	s.logger.Info("evicted stale movies", "count", n, "retentionDays", s.retentionDays)
	return n, nil
}

// RetentionDays returns the configured eviction window.
func (s *Service) RetentionDays() int {
	return s.retentionDays
}

// --- Private helpers ---

// cacheMovies writes through to the store. Failures are logged, never returned.
func (s *Service) cacheMovies(movies []domain.Movie) {
	if len(movies) == 0 {
		return
	}
	if err := s.store.UpsertAll(movies); err != nil {
		s.logger.Error("failed to save movies", "error", err, "count", len(movies))
		return
	}
	if s.maxCached > 0 {
		if n, err := s.store.TrimToLimit(s.maxCached); err != nil {
			s.logger.Error("failed to trim cache", "error", err)
		} else if n > 0 {
			s.logger.Debug("trimmed cache", "removed", n, "max", s.maxCached)
		}
	}
}

package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mmcdole/popcorn/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const dbFileName = "movies.db"

// Bucket names
var (
	bucketMovies = []byte("movies")
)

// cachedMovieRecord is the persisted form of a domain.Movie.
type cachedMovieRecord struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Overview         *string   `json:"overview,omitempty"`
	PosterPath       *string   `json:"poster_path,omitempty"`
	BackdropPath     *string   `json:"backdrop_path,omitempty"`
	ReleaseDate      *string   `json:"release_date,omitempty"`
	OriginalLanguage *string   `json:"original_language,omitempty"`
	VoteAverage      *float64  `json:"vote_average,omitempty"`
	VoteCount        *int      `json:"vote_count,omitempty"`
	Popularity       *float64  `json:"popularity,omitempty"`
	Adult            *bool     `json:"adult,omitempty"`
	CachedAt         time.Time `json:"cached_at"`

	// Batch and Index order records written at the same instant:
	// newer batches first, server order within a batch.
	Batch uint64 `json:"batch"`
	Index int    `json:"index"`
}

func newRecord(m domain.Movie, cachedAt time.Time, batch uint64, index int) cachedMovieRecord {
	return cachedMovieRecord{
		ID:               m.ID,
		Title:            m.Title,
		Overview:         m.Overview,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		ReleaseDate:      m.ReleaseDate,
		OriginalLanguage: m.OriginalLanguage,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		Adult:            m.Adult,
		CachedAt:         cachedAt,
		Batch:            batch,
		Index:            index,
	}
}

func (r cachedMovieRecord) toMovie() domain.Movie {
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

// newerFirst reports whether a sorts before b in most-recently-cached-first order.
func newerFirst(a, b cachedMovieRecord) bool {
	if !a.CachedAt.Equal(b.CachedAt) {
		return a.CachedAt.After(b.CachedAt)
	}
	if a.Batch != b.Batch {
		return a.Batch > b.Batch
	}
	return a.Index < b.Index
}

// Option configures a MovieStore.
type Option func(*MovieStore)

// WithClock overrides the time source used for cache timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *MovieStore) {
		s.now = now
	}
}

// MovieStore implements domain.MovieStore using BoltDB.
// bbolt serializes writers and gives each read a consistent snapshot,
// so every method is safe for concurrent use.
type MovieStore struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens (or creates) the movie cache database in dir.
func Open(dir string, opts ...Option) (*MovieStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketMovies)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &MovieStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the database file location.
func (s *MovieStore) Path() string {
	return s.db.Path()
}

func (s *MovieStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(int64(id)))
	return b
}

// records decodes every record in the bucket.
func records(b *bolt.Bucket) ([]cachedMovieRecord, error) {
	var recs []cachedMovieRecord
	err := b.ForEach(func(k, v []byte) error {
		var rec cachedMovieRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("corrupt cache record %x: %w", k, err)
		}
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

// === Movies ===

// UpsertAll writes every movie in one transaction. Existing records with the
// same id are overwritten in place; every written record gets the same CachedAt.
func (s *MovieStore) UpsertAll(movies []domain.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	cachedAt := s.now()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMovies)
		batch, err := b.NextSequence()
		if err != nil {
			return err
		}
		for i, m := range movies {
			data, err := json.Marshal(newRecord(m, cachedAt, batch, i))
			if err != nil {
				return fmt.Errorf("failed to encode movie %d: %w", m.ID, err)
			}
			if err := b.Put(itob(m.ID), data); err != nil {
				return fmt.Errorf("failed to write movie %d: %w", m.ID, err)
			}
		}
		return nil
	})
}

// GetAll returns every cached movie, most recently cached first.
func (s *MovieStore) GetAll() ([]domain.Movie, error) {
	var recs []cachedMovieRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		recs, err = records(tx.Bucket(bucketMovies))
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool { return newerFirst(recs[i], recs[j]) })

	movies := make([]domain.Movie, len(recs))
	for i, rec := range recs {
		movies[i] = rec.toMovie()
	}
	return movies, nil
}

// GetByID returns the cached movie for id. A missing id is not an error.
func (s *MovieStore) GetByID(id int) (domain.Movie, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketMovies).Get(itob(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return domain.Movie{}, false, err
	}

	var rec cachedMovieRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Movie{}, false, fmt.Errorf("corrupt cache record %d: %w", id, err)
	}
	return rec.toMovie(), true, nil
}

func (s *MovieStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketMovies).Stats().KeyN
		return nil
	})
	return n, err
}

// === Eviction ===

// DeleteAll removes every record. The bucket is dropped and recreated in the
// same transaction, so the store is either empty afterwards or unchanged.
func (s *MovieStore) DeleteAll() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketMovies); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketMovies)
		return err
	})
}

// DeleteOlderThan removes records whose CachedAt is strictly before now minus maxAgeDays.
func (s *MovieStore) DeleteOlderThan(maxAgeDays int) (int, error) {
	cutoff := s.now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)

	return s.deleteWhere(func(recs []cachedMovieRecord) []cachedMovieRecord {
		var stale []cachedMovieRecord
		for _, rec := range recs {
			if rec.CachedAt.Before(cutoff) {
				stale = append(stale, rec)
			}
		}
		return stale
	})
}

// TrimToLimit keeps the max most recently cached records and removes the rest.
func (s *MovieStore) TrimToLimit(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	return s.deleteWhere(func(recs []cachedMovieRecord) []cachedMovieRecord {
		if len(recs) <= max {
			return nil
		}
		sort.SliceStable(recs, func(i, j int) bool { return newerFirst(recs[i], recs[j]) })
		return recs[max:]
	})
}

// deleteWhere removes the records chosen by pick inside a single write transaction.
func (s *MovieStore) deleteWhere(pick func([]cachedMovieRecord) []cachedMovieRecord) (int, error) {
	var deleted int
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMovies)
		recs, err := records(b)
		if err != nil {
			return err
		}
		victims := pick(recs)
		for _, rec := range victims {
			if err := b.Delete(itob(rec.ID)); err != nil {
				return err
			}
		}
		deleted = len(victims)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

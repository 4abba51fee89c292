package domain

// MovieStore is the persistent movie cache, keyed by movie id.
// Every method runs in its own transaction; no partial writes are visible.
type MovieStore interface {
	// UpsertAll creates or overwrites one record per movie and stamps each with the current time.
	UpsertAll(movies []Movie) error

	// GetAll returns every cached movie, most recently cached first.
	GetAll() ([]Movie, error)

	// GetByID returns the cached movie; found is false when the id is absent.
	GetByID(id int) (movie Movie, found bool, err error)

	Count() (int, error)

	// DeleteAll empties the cache.
	DeleteAll() error

	// DeleteOlderThan removes records cached strictly before now minus maxAgeDays.
	DeleteOlderThan(maxAgeDays int) (int, error)

	// TrimToLimit removes the oldest records beyond max. max <= 0 disables trimming.
	TrimToLimit(max int) (int, error)

	Close() error
}

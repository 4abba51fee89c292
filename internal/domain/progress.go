package domain

// MoviePage is the result of a listing fetch.
type MoviePage struct {
	Movies     []Movie // Server order, or most-recently-cached first when FromCache
	Page       int     // Page that was requested
	TotalPages int     // 0 when FromCache
	FromCache  bool    // true if the network was unreachable and the cache was served instead
}

// ProgressFunc reports prefetch progress: (pages done, pages requested).
type ProgressFunc func(done, total int)

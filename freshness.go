package pubcache

import "time"

// entry is one cached snapshot of the published document. payload keeps the
// raw response bytes so a 304 revalidation reuses them verbatim and a
// durable-tier write never re-encodes. maxAge and staleFor are the windows
// in effect when the entry was written; a later config change only affects
// entries written after it.
type entry[V any] struct {
	value     V
	payload   []byte
	fetchedAt time.Time
	maxAge    time.Duration
	staleFor  time.Duration
	token     string // validation token (ETag); "" when the server sent none
}

// fresh reports whether the entry is inside its freshness window.
func (e *entry[V]) fresh(now time.Time) bool {
	return now.Before(e.fetchedAt.Add(e.maxAge))
}

// usable reports whether the entry may still be served, i.e. it is fresh or
// inside the stale-while-revalidate window. An entry that is usable but not
// fresh must trigger a background revalidation; one that is neither is
// expired and must not be served.
func (e *entry[V]) usable(now time.Time) bool {
	return now.Before(e.fetchedAt.Add(e.maxAge + e.staleFor))
}

package pubcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A stale-window background refresh settled with an error. The error is
	// never surfaced to the reader that triggered the refresh; this hook is
	// how it becomes observable.
	BackgroundRefreshFailed(key string, err error)

	// The durable tier rejected a write (quota, disabled storage, outage).
	// The triggering read already succeeded; the write was dropped.
	StoreWriteFailed(storageKey string, err error)

	// The durable tier rejected a delete during ClearCache.
	StoreClearFailed(storageKey string, err error)

	// A durable record was dropped on read.
	// reason ∈ {"corrupt", "value_decode"}
	EntryDropped(storageKey, reason string)

	// The server confirmed the cached payload via 304 Not Modified.
	Revalidated(key string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) BackgroundRefreshFailed(string, error) {}
func (NopHooks) StoreWriteFailed(string, error)        {}
func (NopHooks) StoreClearFailed(string, error)        {}
func (NopHooks) EntryDropped(string, string)           {}
func (NopHooks) Revalidated(string)                    {}

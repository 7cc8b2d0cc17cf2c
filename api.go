package pubcache

import (
	"context"
	"net/http"
	"time"

	c "github.com/unkn0wn-root/pubcache/codec"
	st "github.com/unkn0wn-root/pubcache/store"
)

// Source identifies which tier (or revalidation outcome) satisfied a read.
type Source string

const (
	// SourceMemory: the in-process memory tier answered.
	SourceMemory Source = "memory"
	// SourceStorage: the durable tier answered (first read of this instance).
	SourceStorage Source = "storage"
	// SourceNetwork: a full network response replaced the payload.
	SourceNetwork Source = "network"
	// SourceRevalidated: the server confirmed the cached payload via 304.
	SourceRevalidated Source = "network-304"
)

// Result is the outcome of a read: the decoded document, the tier that
// produced it, and the validation token (ETag) currently associated with it.
type Result[V any] struct {
	Data   V
	Source Source
	Token  string
}

// ReadOptions tune a single GetPublished call.
type ReadOptions struct {
	// ForceRefresh skips both tiers and performs (or joins) a blocking
	// network refresh.
	ForceRefresh bool
}

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is the high-level API for one published document. V is the caller's
// decoded payload type; serialization is handled by a pluggable Codec[V].
type Client[V any] interface {
	// GetPublished returns the document, serving from cache when freshness
	// allows and refreshing over the network otherwise. Concurrent calls
	// that need a refresh share a single network request.
	GetPublished(ctx context.Context, opts ReadOptions) (Result[V], error)

	// Refresh forces a blocking, coordinated network refresh.
	Refresh(ctx context.Context) (Result[V], error)

	// ClearCache empties the memory tier and best-effort removes the durable
	// record. It does not cancel an in-flight refresh.
	ClearCache(ctx context.Context)

	// Close releases the durable store, if any.
	Close(ctx context.Context) error
}

// Options configure a Client. Only Endpoint and SiteID are required; others
// have sensible defaults.
type Options[V any] struct {
	// Required
	Endpoint string // origin+path of the published-document endpoint
	SiteID   string // site identifier; appended to Endpoint as a path segment

	// Version participates in the cache key only. Bump it to force a fresh
	// key (cache busting); it is not sent to the server.
	Version string

	KeyPrefix string           // storage key prefix; "" => "pubcache"
	Storage   st.Store         // durable tier; nil => memory-only
	Codec     c.Codec[V]       // nil => codec.JSON[V]
	HTTP      Doer             // nil => http.DefaultClient
	MaxAge    time.Duration    // freshness window; 0 => 1m
	StaleFor  time.Duration    // stale-while-revalidate window past MaxAge; 0 => 5m
	Logger    Logger           // nil => NopLogger
	Hooks     Hooks            // nil => NopHooks
	Now       func() time.Time // nil => time.Now; injectable for tests
}

// New validates opts and builds a Client.
func New[V any](opts Options[V]) (Client[V], error) {
	return newClient[V](opts)
}

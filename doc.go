// Package pubcache implements a client-side read-through cache for a single
// published site document served over HTTP. Reads are answered from an
// in-process memory tier, falling back to an optional durable tier; freshness
// windows decide whether a cached entry is served as-is, served while a
// background revalidation runs (stale-while-revalidate), or replaced by a
// blocking refresh. Refreshes are conditional (If-None-Match with the last
// known ETag) and de-duplicated per client instance, so concurrent readers
// share one network request.
//
// Components:
//   - store.Store: optional durable byte store (e.g. Redis, BigCache,
//     Ristretto, or the in-process memory store). Nil means memory-only.
//   - codec.Codec[V]: (de)serializes the document payload V <-> []byte.
//   - Logger / Hooks: pluggable observability; background refresh failures
//     are always captured through these rather than dropped.
//
// Keys:
//
//	<prefix>:<hash(endpoint, site, version)> - one record per client config
//
// Changing Options.Version changes the key, which is the cache-busting
// mechanism: a deploy that must serve a rebuilt document bumps the version.
//
// Read pattern:
//
//	c, _ := pubcache.New[Doc](pubcache.Options[Doc]{
//	    Endpoint: "https://cdn.example.com/published",
//	    SiteID:   "site-42",
//	    Store:    redisStore,
//	})
//	res, err := c.GetPublished(ctx, pubcache.ReadOptions{})
//	// res.Source tells which tier (or revalidation outcome) answered.
package pubcache

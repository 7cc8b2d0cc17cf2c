package pubcache

import (
	"context"
	"sync"
	"time"

	c "github.com/unkn0wn-root/pubcache/codec"
	"github.com/unkn0wn-root/pubcache/internal/wire"
	st "github.com/unkn0wn-root/pubcache/store"
)

// tieredStore holds the current entry for one cache key across two tiers.
// The memory tier is authoritative and scoped to the owning client instance;
// the durable tier, when present, is shared across instances and consulted
// only while the memory tier is empty. No durable-tier failure ever escapes
// this type: reads degrade to misses and writes are dropped with a hook.
type tieredStore[V any] struct {
	key     string
	backend st.Store // nil => memory-only
	codec   c.Codec[V]
	log     Logger
	hooks   Hooks

	mu  sync.Mutex
	mem *entry[V]
}

// load returns the current entry and the tier that answered. A durable hit
// is promoted into the memory tier for later reads without writing back,
// and keeps its original fetchedAt so stale durable data stays stale.
func (s *tieredStore[V]) load(ctx context.Context) (*entry[V], Source, bool) {
	s.mu.Lock()
	if s.mem != nil {
		e := s.mem
		s.mu.Unlock()
		return e, SourceMemory, true
	}
	s.mu.Unlock()

	if s.backend == nil {
		return nil, "", false
	}
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.log.Debug("durable read failed; treating as miss", Fields{"key": s.key, "err": err})
		return nil, "", false
	}
	if !ok {
		return nil, "", false
	}

	we, err := wire.Decode(raw)
	if err != nil {
		s.drop(ctx, "corrupt")
		return nil, "", false
	}
	v, err := s.codec.Decode(we.Payload)
	if err != nil {
		s.drop(ctx, "value_decode")
		return nil, "", false
	}

	e := &entry[V]{
		value:     v,
		payload:   append([]byte(nil), we.Payload...),
		fetchedAt: time.UnixMilli(we.FetchedAtMs),
		maxAge:    time.Duration(we.MaxAgeMs) * time.Millisecond,
		staleFor:  time.Duration(we.StaleMs) * time.Millisecond,
		token:     we.Token,
	}

	s.mu.Lock()
	// a refresh may have written memory while we were reading the backend;
	// an older durable record must not clobber it
	if s.mem == nil {
		s.mem = e
	}
	s.mu.Unlock()
	return e, SourceStorage, true
}

// save writes the memory tier unconditionally, then attempts the durable
// write with TTL covering the full usable window.
func (s *tieredStore[V]) save(ctx context.Context, e *entry[V]) {
	s.mu.Lock()
	s.mem = e
	s.mu.Unlock()

	if s.backend == nil {
		return
	}
	raw, err := wire.Encode(wire.Entry{
		FetchedAtMs: e.fetchedAt.UnixMilli(),
		MaxAgeMs:    e.maxAge.Milliseconds(),
		StaleMs:     e.staleFor.Milliseconds(),
		Token:       e.token,
		Payload:     e.payload,
	})
	if err != nil {
		s.hooks.StoreWriteFailed(s.key, err)
		return
	}
	if err := s.backend.Set(ctx, s.key, raw, e.maxAge+e.staleFor); err != nil {
		s.log.Debug("durable write dropped", Fields{"key": s.key, "err": err})
		s.hooks.StoreWriteFailed(s.key, err)
	}
}

// clear empties the memory tier and best-effort removes the durable record.
func (s *tieredStore[V]) clear(ctx context.Context) {
	s.mu.Lock()
	s.mem = nil
	s.mu.Unlock()

	if s.backend == nil {
		return
	}
	if err := s.backend.Del(ctx, s.key); err != nil {
		s.log.Debug("durable delete dropped", Fields{"key": s.key, "err": err})
		s.hooks.StoreClearFailed(s.key, err)
	}
}

// drop self-heals an unreadable durable record so the next reader does not
// pay the decode failure again.
func (s *tieredStore[V]) drop(ctx context.Context, reason string) {
	_ = s.backend.Del(ctx, s.key)
	s.hooks.EntryDropped(s.key, reason)
}

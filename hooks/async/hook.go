// Package asynchook decouples hook callbacks from the cache's hot paths.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    DroppedEvery: 10, // sample logs: ~every 10th dropped entry
//	})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := pubcache.New[Doc](pubcache.Options[Doc]{
//	    Endpoint: "https://cdn.example.com/published",
//	    SiteID:   "site-42",
//	    Hooks:    hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/pubcache"
)

type Hooks struct {
	inner pubcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ pubcache.Hooks = (*Hooks)(nil)

func New(inner pubcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) BackgroundRefreshFailed(k string, err error) {
	h.try(func() { h.inner.BackgroundRefreshFailed(k, err) })
}
func (h *Hooks) StoreWriteFailed(k string, err error) {
	h.try(func() { h.inner.StoreWriteFailed(k, err) })
}
func (h *Hooks) StoreClearFailed(k string, err error) {
	h.try(func() { h.inner.StoreClearFailed(k, err) })
}
func (h *Hooks) EntryDropped(k, r string) { h.try(func() { h.inner.EntryDropped(k, r) }) }
func (h *Hooks) Revalidated(k string)     { h.try(func() { h.inner.Revalidated(k) }) }

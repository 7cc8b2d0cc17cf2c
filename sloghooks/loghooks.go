package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/pubcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DroppedEvery     uint64
	RevalidatedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	droppedCtr     atomic.Uint64
	revalidatedCtr atomic.Uint64
}

var _ pubcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) BackgroundRefreshFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("pubcache.background_refresh_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) StoreWriteFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("pubcache.store_write_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) StoreClearFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("pubcache.store_clear_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) EntryDropped(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.DroppedEvery, &h.droppedCtr) {
		return
	}
	h.l.Debug("pubcache.entry_dropped",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) Revalidated(key string) {
	if h.l == nil || !sample(h.opts.RevalidatedEvery, &h.revalidatedCtr) {
		return
	}
	h.l.Debug("pubcache.revalidated",
		"key", h.redact(key))
}

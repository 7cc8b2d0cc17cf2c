// Package memory provides an in-process Store. It satisfies the durable-tier
// contract for deployments with no external backend and doubles as the fake
// used throughout the test suites.
package memory

import (
	"context"
	"sync"
	"time"
)

type record struct {
	value     []byte
	expiresAt time.Time // zero => no expiry
}

// Store keeps records in a mutex-guarded map. An optional sweep loop prunes
// expired records so a long-lived process does not accumulate dead keys;
// expired records are also dropped lazily on Get.
type Store struct {
	mu      sync.RWMutex
	records map[string]record

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Store. sweepInterval <= 0 disables the background sweep.
func New(sweepInterval time.Duration) *Store {
	s := &Store{records: make(map[string]record)}
	if sweepInterval > 0 {
		s.ticker = time.NewTicker(sweepInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Sweep()
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	r, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !r.expiresAt.IsZero() && time.Now().After(r.expiresAt) {
		s.mu.Lock()
		// re-check under the write lock; a concurrent Set may have renewed it
		if cur, ok := s.records[key]; ok && !cur.expiresAt.IsZero() && time.Now().After(cur.expiresAt) {
			delete(s.records, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return r.value, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.mu.Lock()
	s.records[key] = record{value: cp, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Sweep removes all expired records.
func (s *Store) Sweep() {
	now := time.Now()
	s.mu.Lock()
	for k, r := range s.records {
		if !r.expiresAt.IsZero() && r.expiresAt.Before(now) {
			delete(s.records, k)
		}
	}
	s.mu.Unlock()
}

func (s *Store) Close(_ context.Context) error {
	if s.stopCh != nil {
		close(s.stopCh)
		s.ticker.Stop() // stop ticker before waiting
		s.wg.Wait()
	}
	return nil
}

// Len reports the number of live records (expired-but-unswept included).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

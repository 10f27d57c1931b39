package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/metrics"
)

type memoryEntry struct {
	txs      []domain.Transaction
	storedAt time.Time
}

// MemoryStore is the in-process cache backend. Expiry is lazy: stale entries
// are treated as absent at Get time and reclaimed by the optional sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key]memoryEntry
	ttl     time.Duration
	now     func() time.Time // overridable in tests
}

// NewMemoryStore creates an in-memory store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[Key]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key Key) ([]domain.Transaction, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.now().Sub(entry.storedAt) >= s.ttl {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("memory").Inc()
	return entry.txs, true
}

func (s *MemoryStore) Put(ctx context.Context, key Key, txs []domain.Transaction) {
	s.mu.Lock()
	s.entries[key] = memoryEntry{txs: txs, storedAt: s.now()}
	s.mu.Unlock()
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.entries = make(map[Key]memoryEntry)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// StartSweep runs a periodic expiry sweep until ctx is cancelled. Purely a
// memory bound; correctness never depends on it because Get checks freshness
// itself.
func (s *MemoryStore) StartSweep(ctx context.Context) {
	interval := max(s.ttl/2, time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if entry.storedAt.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

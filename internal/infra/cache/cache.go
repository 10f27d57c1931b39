// Package cache stores reconciled scan results keyed by the scanned range.
//
// Entries are consulted only while younger than the configured TTL; a stale
// or failed lookup is reported as a miss so the scanner recomputes. The cache
// is process-local (or a single Redis instance) with no cross-instance
// consistency guarantee: the same scan is idempotent and cheap to redo.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/vietddude/txhistory/internal/core/domain"
)

// Key identifies one cached scan. An explicit tuple rather than a digest so
// entries stay human-inspectable in redis-cli or debug dumps.
type Key struct {
	Address   string
	ChainID   domain.ChainID
	FromBlock uint64
	ToBlock   uint64
}

// String renders the key in the canonical entry format.
func (k Key) String() string {
	return fmt.Sprintf("txhistory:%d:%s:%d-%d", k.ChainID, strings.ToLower(k.Address), k.FromBlock, k.ToBlock)
}

// Store is the cache contract the scanner depends on. Backend errors never
// surface: Get degrades to a miss and Put is best-effort.
type Store interface {
	Get(ctx context.Context, key Key) ([]domain.Transaction, bool)
	Put(ctx context.Context, key Key, txs []domain.Transaction)
	// Clear drops all entries, e.g. after a known reorg or a user-triggered
	// refresh.
	Clear(ctx context.Context) error
	Close() error
}

// Config holds cache backend configuration.
type Config struct {
	Backend string      `yaml:"backend"` // "memory" (default) or "redis"
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

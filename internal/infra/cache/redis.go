package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/metrics"
)

// RedisStore is the external cache backend. Expiry is delegated to Redis via
// the key TTL, so a returned value is fresh by construction.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed store with the given TTL.
func NewRedisStore(cfg RedisConfig, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, key Key) ([]domain.Transaction, bool) {
	data, err := s.rdb.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache get failed, treating as miss", "key", key.String(), "error", err)
		}
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}

	var txs []domain.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		slog.Warn("cache entry corrupt, treating as miss", "key", key.String(), "error", err)
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return txs, true
}

func (s *RedisStore) Put(ctx context.Context, key Key, txs []domain.Transaction) {
	data, err := json.Marshal(txs)
	if err != nil {
		slog.Warn("cache put marshal failed", "key", key.String(), "error", err)
		return
	}
	if err := s.rdb.Set(ctx, key.String(), data, s.ttl).Err(); err != nil {
		slog.Warn("cache put failed", "key", key.String(), "error", err)
	}
}

func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, "txhistory:*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("del failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

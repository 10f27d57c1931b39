// Package scan reconstructs a wallet's transaction history by reading the
// chain directly: no indexing API, three independent best-effort sources,
// reconciled and cached per scanned range.
package scan

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/config"
	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/infra/cache"
	"github.com/vietddude/txhistory/internal/metrics"
)

// Service orchestrates one history scan: resolve the chain, clamp the range,
// consult the cache, fan the three fetchers out, reconcile, store.
type Service struct {
	registry *chain.Registry
	cache    cache.Store
	cfg      config.ScanConfig
	log      *slog.Logger

	native   Fetcher
	fungible Fetcher
	nft      Fetcher
}

// NewService wires the fetchers enabled by configuration. The cache is
// injected so tests can run the orchestrator against a bare memory store.
func NewService(registry *chain.Registry, store cache.Store, cfg config.ScanConfig, log *slog.Logger) *Service {
	s := &Service{
		registry: registry,
		cache:    store,
		cfg:      cfg,
		log:      log,
	}

	meta := newMetaResolver()
	if cfg.IncludeNative {
		s.native = NewNativeFetcher(cfg.PageSize, log)
	}
	if cfg.IncludeFungible {
		s.fungible = NewFungibleFetcher(cfg.NFTValueThreshold, meta, log)
	}
	if cfg.IncludeNFT {
		s.nft = NewNFTFetcher(cfg.NFTValueThreshold, meta, log)
	}

	return s
}

// GetTransactions returns the wallet's reconciled history for the requested
// range. The only error it propagates is chain.ErrUnsupportedChain; every
// other failure degrades to a partial (possibly empty) list.
func (s *Service) GetTransactions(ctx context.Context, address string, chainID domain.ChainID, fromBlock, toBlock *uint64) ([]domain.Transaction, error) {
	params, err := s.registry.Resolve(chainID)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("unknown", "unsupported_chain").Inc()
		return nil, err
	}

	if !s.cfg.Enabled {
		s.log.Debug("history scanning disabled", "chain", params.Name)
		return []domain.Transaction{}, nil
	}

	address = strings.ToLower(address)
	start := time.Now()

	from, to, ok := s.resolveRange(ctx, params, fromBlock, toBlock)
	if !ok {
		metrics.ScansTotal.WithLabelValues(params.Name, "head_unavailable").Inc()
		return []domain.Transaction{}, nil
	}

	key := cache.Key{Address: address, ChainID: chainID, FromBlock: from, ToBlock: to}
	if s.cfg.CacheEnabled {
		if txs, found := s.cache.Get(ctx, key); found {
			metrics.ScansTotal.WithLabelValues(params.Name, "cache_hit").Inc()
			return txs, nil
		}
	}

	// The sources share no mutable state, so they run in parallel and join
	// before reconciliation.
	var native, fungible, nonFungible []domain.Transaction
	g, gctx := errgroup.WithContext(ctx)
	if s.native != nil {
		g.Go(func() error {
			native = s.native.Fetch(gctx, params, address, from, to)
			return nil
		})
	}
	if s.fungible != nil {
		g.Go(func() error {
			fungible = s.fungible.Fetch(gctx, params, address, from, to)
			return nil
		})
	}
	if s.nft != nil {
		g.Go(func() error {
			nonFungible = s.nft.Fetch(gctx, params, address, from, to)
			return nil
		})
	}
	g.Wait()

	merged := Merge(native, fungible, nonFungible)

	if s.cfg.CacheEnabled {
		s.cache.Put(ctx, key, merged)
	}

	metrics.ScansTotal.WithLabelValues(params.Name, "ok").Inc()
	metrics.ScanDuration.WithLabelValues(params.Name).Observe(time.Since(start).Seconds())
	s.log.Info("history scan complete",
		"chain", params.Name, "address", address,
		"from", from, "to", to, "transactions", len(merged))

	return merged, nil
}

// ClearCache drops every cached range, e.g. after a known reorg or a
// user-triggered refresh.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// resolveRange fills missing bounds: toBlock defaults to the chain head,
// fromBlock to toBlock minus the configured span, floored at genesis. When
// the head cannot be determined there is nothing sane to scan, so the caller
// gets an empty result rather than an error.
func (s *Service) resolveRange(ctx context.Context, params *chain.ConnectionParams, fromBlock, toBlock *uint64) (uint64, uint64, bool) {
	var to uint64
	if toBlock != nil {
		to = *toBlock
	} else {
		result, err := params.Client.Call(ctx, "eth_blockNumber", nil)
		if err != nil {
			s.log.Warn("chain head unavailable", "chain", params.Name, "error", err)
			return 0, 0, false
		}
		head, err := parseHexUint(getString(result))
		if err != nil {
			s.log.Warn("chain head unparsable", "chain", params.Name, "error", err)
			return 0, 0, false
		}
		to = head
	}

	var from uint64
	if fromBlock != nil {
		from = *fromBlock
	} else if to > s.cfg.MaxBlockRange {
		from = to - s.cfg.MaxBlockRange
	}

	if from > to {
		s.log.Warn("empty block range requested", "chain", params.Name, "from", from, "to", to)
		return 0, 0, false
	}

	return from, to, true
}

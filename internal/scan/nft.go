package scan

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/domain"
)

// NFTFetcher reconstructs token-ID transfers from the same Transfer event
// signature the fungible fetcher queries; the two standards share it. The
// magnitude heuristic in transferLog.isNFT decides which fetcher keeps an
// event, so a hash never legitimately belongs to both lists.
type NFTFetcher struct {
	threshold uint64
	meta      *metaResolver
	log       *slog.Logger
}

// NewNFTFetcher creates a non-fungible-transfer fetcher.
func NewNFTFetcher(threshold uint64, meta *metaResolver, log *slog.Logger) *NFTFetcher {
	return &NFTFetcher{threshold: threshold, meta: meta, log: log}
}

func (f *NFTFetcher) Source() string { return "nft" }

func (f *NFTFetcher) Fetch(ctx context.Context, params *chain.ConnectionParams, address string, fromBlock, toBlock uint64) []domain.Transaction {
	logs := fetchTransferLogs(ctx, params, address, fromBlock, toBlock, f.Source(), f.log)

	txs := make([]domain.Transaction, 0, len(logs))
	for _, l := range logs {
		if !l.isNFT(f.threshold) {
			continue // amount-sized value, captured by the fungible fetcher
		}
		meta := f.meta.tokenMeta(ctx, params.Client, params.ChainID, l.token)
		txs = append(txs, domain.Transaction{
			Hash:         l.txHash,
			Type:         domain.TxTypeNFTTransfer,
			Status:       domain.TxStatusSuccess,
			From:         l.from,
			To:           l.to,
			Value:        big.NewInt(0),
			BlockNumber:  l.blockNumber,
			Timestamp:    f.meta.blockTime(ctx, params.Client, params.ChainID, l.blockNumber),
			TokenAddress: l.token,
			TokenSymbol:  meta.symbol,
			TokenID:      l.value,
		})
	}
	return txs
}

package scan

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/infra/rpc"
	"github.com/vietddude/txhistory/internal/metrics"
)

const (
	// blockFetchConcurrency bounds parallel block fetches within one batch.
	blockFetchConcurrency = 10
	// receiptChunkSize is the number of receipts requested per batch call.
	receiptChunkSize = 10
)

// NativeFetcher walks the block range and keeps transactions whose sender or
// recipient is the target address. Matching transactions are enriched with
// their receipt for final status and gas used.
type NativeFetcher struct {
	pageSize uint64
	log      *slog.Logger
}

// NewNativeFetcher creates a native-transfer fetcher with the given page size.
func NewNativeFetcher(pageSize uint64, log *slog.Logger) *NativeFetcher {
	if pageSize == 0 {
		pageSize = 100
	}
	return &NativeFetcher{pageSize: pageSize, log: log}
}

func (f *NativeFetcher) Source() string { return "native" }

func (f *NativeFetcher) Fetch(ctx context.Context, params *chain.ConnectionParams, address string, fromBlock, toBlock uint64) []domain.Transaction {
	address = strings.ToLower(address)

	var txs []domain.Transaction
	for start := fromBlock; start <= toBlock; {
		end := min(start+f.pageSize-1, toBlock)
		txs = append(txs, f.fetchBatch(ctx, params, address, start, end)...)
		if end == toBlock {
			break
		}
		start = end + 1
	}

	f.enrichReceipts(ctx, params, txs)
	return txs
}

// fetchBatch fetches one page of blocks concurrently and filters transactions
// touching the address. A failed block is skipped, not retried; the result is
// documented as best-effort.
func (f *NativeFetcher) fetchBatch(ctx context.Context, params *chain.ConnectionParams, address string, start, end uint64) []domain.Transaction {
	var mu sync.Mutex
	var matched []domain.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blockFetchConcurrency)

	for number := start; number <= end; number++ {
		g.Go(func() error {
			found, err := f.scanBlock(gctx, params.Client, address, number)
			if err != nil {
				metrics.FetchErrorsTotal.WithLabelValues(params.Name, f.Source()).Inc()
				f.log.Warn("block fetch failed, skipping", "chain", params.Name, "block", number, "error", err)
				return nil
			}
			if len(found) > 0 {
				mu.Lock()
				matched = append(matched, found...)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	// Blocks land in goroutine-completion order; restore chain order so the
	// reconciler's stable sort sees a deterministic input.
	sortByBlockAscThenNonce(matched)
	return matched
}

func (f *NativeFetcher) scanBlock(ctx context.Context, client rpc.Client, address string, number uint64) ([]domain.Transaction, error) {
	result, err := client.Call(ctx, "eth_getBlockByNumber", []any{encodeBlockNumber(number), true})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil // future or pruned block
	}

	rawBlock, ok := result.(map[string]any)
	if !ok {
		return nil, errInvalidBlock
	}

	timestamp, _ := parseHexUint(getString(rawBlock["timestamp"]))
	rawTxs, _ := rawBlock["transactions"].([]any)

	var matched []domain.Transaction
	for _, txRaw := range rawTxs {
		raw, ok := txRaw.(map[string]any)
		if !ok {
			continue
		}
		from := strings.ToLower(getString(raw["from"]))
		to := strings.ToLower(getString(raw["to"]))
		if from != address && to != address {
			continue
		}
		matched = append(matched, buildNativeTransaction(raw, number, timestamp))
	}

	return matched, nil
}

func buildNativeTransaction(raw map[string]any, blockNumber, timestamp uint64) domain.Transaction {
	value, _ := parseHexBigInt(getString(raw["value"]))
	gasPrice, _ := parseHexBigInt(getString(raw["gasPrice"]))
	nonce, _ := parseHexUint(getString(raw["nonce"]))
	input := getString(raw["input"])

	tx := domain.Transaction{
		Hash:        strings.ToLower(getString(raw["hash"])),
		Type:        domain.TxTypeNative,
		Status:      domain.TxStatusPending, // resolved by the receipt
		From:        strings.ToLower(getString(raw["from"])),
		To:          strings.ToLower(getString(raw["to"])),
		Value:       value,
		BlockNumber: blockNumber,
		Timestamp:   timestamp,
		GasPrice:    gasPrice,
		Nonce:       nonce,
		Input:       input,
	}

	// Calldata toward a contract: classify as a call and keep the selector.
	if len(input) >= 10 && tx.To != "" {
		tx.Type = domain.TxTypeContractCall
		tx.MethodSelector = input[:10]
	}

	return tx
}

// enrichReceipts resolves status and gas used for the matched transactions.
// Receipts are requested in batch chunks; a failed chunk leaves its entries
// pending rather than aborting the scan.
func (f *NativeFetcher) enrichReceipts(ctx context.Context, params *chain.ConnectionParams, txs []domain.Transaction) {
	if len(txs) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for start := 0; start < len(txs); start += receiptChunkSize {
		chunk := txs[start:min(start+receiptChunkSize, len(txs))]

		g.Go(func() error {
			requests := make([]rpc.BatchRequest, len(chunk))
			for i, tx := range chunk {
				requests[i] = rpc.BatchRequest{
					Method: "eth_getTransactionReceipt",
					Params: []any{tx.Hash},
				}
			}

			responses, err := params.Client.BatchCall(gctx, requests)
			if err != nil {
				metrics.FetchErrorsTotal.WithLabelValues(params.Name, f.Source()).Inc()
				f.log.Warn("batch receipt fetch failed", "chain", params.Name, "error", err)
				return nil
			}

			for i, resp := range responses {
				if i >= len(chunk) {
					break
				}
				if resp.Error != nil || resp.Result == nil {
					continue
				}
				receipt, ok := resp.Result.(map[string]any)
				if !ok {
					continue
				}
				applyReceipt(&chunk[i], receipt)
			}
			return nil
		})
	}
	g.Wait()
}

func applyReceipt(tx *domain.Transaction, receipt map[string]any) {
	tx.GasUsed, _ = parseHexUint(getString(receipt["gasUsed"]))
	switch getString(receipt["status"]) {
	case "0x0":
		tx.Status = domain.TxStatusFailed
	case "0x1":
		tx.Status = domain.TxStatusSuccess
	}
}

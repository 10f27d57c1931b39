package scan

import (
	"context"
	"log/slog"
	"math/big"
	"strings"

	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/metrics"
)

// transferLog is one decoded Transfer event, still standard-ambiguous: the
// value is an amount for ERC-20 and a token ID for ERC-721.
type transferLog struct {
	txHash      string
	blockNumber uint64
	token       string
	from        string
	to          string
	value       *big.Int
	indexed     bool // value came from a fourth topic (ERC-721 shape)
}

// isNFT applies the magnitude heuristic: small values are treated as token
// IDs. Known to misclassify low-valued fungible transfers; kept deliberately
// because callers depend on the observable behavior. The threshold is
// configurable to soften the risk.
func (l transferLog) isNFT(threshold uint64) bool {
	return l.value.Cmp(new(big.Int).SetUint64(threshold)) < 0
}

// fetchTransferLogs queries Transfer events with the address as indexed
// sender, then separately as indexed recipient, and concatenates. Two queries
// because log filters match indexed slots by equality, with no OR across
// different positions. A failed query contributes nothing; the other still
// counts.
func fetchTransferLogs(ctx context.Context, params *chain.ConnectionParams, address string, fromBlock, toBlock uint64, source string, log *slog.Logger) []transferLog {
	addrTopic := addressTopic(address)

	filters := []map[string]any{
		{
			"fromBlock": encodeBlockNumber(fromBlock),
			"toBlock":   encodeBlockNumber(toBlock),
			"topics":    []any{transferEventSig, addrTopic},
		},
		{
			"fromBlock": encodeBlockNumber(fromBlock),
			"toBlock":   encodeBlockNumber(toBlock),
			"topics":    []any{transferEventSig, nil, addrTopic},
		},
	}

	var logs []transferLog
	for _, filter := range filters {
		result, err := params.Client.Call(ctx, "eth_getLogs", []any{filter})
		if err != nil {
			metrics.FetchErrorsTotal.WithLabelValues(params.Name, source).Inc()
			log.Warn("log query failed, partial result", "chain", params.Name, "source", source, "error", err)
			continue
		}
		parsed, err := parseTransferLogs(result)
		if err != nil {
			metrics.FetchErrorsTotal.WithLabelValues(params.Name, source).Inc()
			log.Warn("log parse failed, partial result", "chain", params.Name, "source", source, "error", err)
			continue
		}
		logs = append(logs, parsed...)
	}

	return logs
}

func parseTransferLogs(result any) ([]transferLog, error) {
	rawLogs, ok := result.([]any)
	if !ok {
		return nil, errInvalidLogs
	}

	logs := make([]transferLog, 0, len(rawLogs))
	for _, logRaw := range rawLogs {
		raw, ok := logRaw.(map[string]any)
		if !ok {
			continue
		}
		topics, ok := raw["topics"].([]any)
		if !ok || len(topics) < 3 {
			continue
		}

		blockNumber, _ := parseHexUint(getString(raw["blockNumber"]))
		entry := transferLog{
			txHash:      strings.ToLower(getString(raw["transactionHash"])),
			blockNumber: blockNumber,
			token:       strings.ToLower(getString(raw["address"])),
			from:        topicAddress(getString(topics[1])),
			to:          topicAddress(getString(topics[2])),
		}

		// ERC-721 indexes the token ID as a fourth topic; ERC-20 carries the
		// amount in the data field.
		if len(topics) >= 4 {
			entry.value, _ = parseHexBigInt(getString(topics[3]))
			entry.indexed = true
		} else {
			entry.value, _ = parseHexBigInt(getString(raw["data"]))
		}
		if entry.value == nil {
			entry.value = big.NewInt(0)
		}

		logs = append(logs, entry)
	}

	return logs, nil
}

// FungibleFetcher reconstructs token-amount transfers from Transfer events.
//
// Receipts are not fetched for log-derived entries: a mined log implies the
// transaction succeeded, so status defaults to success and gas fields stay
// zero. A documented simplification, not an oversight.
type FungibleFetcher struct {
	threshold uint64
	meta      *metaResolver
	log       *slog.Logger
}

// NewFungibleFetcher creates a fungible-transfer fetcher.
func NewFungibleFetcher(threshold uint64, meta *metaResolver, log *slog.Logger) *FungibleFetcher {
	return &FungibleFetcher{threshold: threshold, meta: meta, log: log}
}

func (f *FungibleFetcher) Source() string { return "fungible" }

func (f *FungibleFetcher) Fetch(ctx context.Context, params *chain.ConnectionParams, address string, fromBlock, toBlock uint64) []domain.Transaction {
	logs := fetchTransferLogs(ctx, params, address, fromBlock, toBlock, f.Source(), f.log)

	txs := make([]domain.Transaction, 0, len(logs))
	for _, l := range logs {
		if l.isNFT(f.threshold) {
			continue // left to the non-fungible fetcher
		}
		meta := f.meta.tokenMeta(ctx, params.Client, params.ChainID, l.token)
		txs = append(txs, domain.Transaction{
			Hash:          l.txHash,
			Type:          domain.TxTypeFungibleTransfer,
			Status:        domain.TxStatusSuccess,
			From:          l.from,
			To:            l.to,
			Value:         big.NewInt(0),
			BlockNumber:   l.blockNumber,
			Timestamp:     f.meta.blockTime(ctx, params.Client, params.ChainID, l.blockNumber),
			TokenAddress:  l.token,
			TokenSymbol:   meta.symbol,
			TokenDecimals: meta.decimals,
			TokenAmount:   l.value,
		})
	}
	return txs
}

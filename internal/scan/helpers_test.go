package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/infra/rpc"
)

// fakeClient scripts RPC responses and records every call.
type fakeClient struct {
	mu           sync.Mutex
	calls        []string
	handler      func(method string, params []any) (any, error)
	batchHandler func(requests []rpc.BatchRequest) ([]rpc.BatchResponse, error)
}

func (c *fakeClient) Call(ctx context.Context, method string, params []any) (any, error) {
	c.mu.Lock()
	c.calls = append(c.calls, method)
	c.mu.Unlock()

	if c.handler == nil {
		return nil, fmt.Errorf("unscripted call: %s", method)
	}
	return c.handler(method, params)
}

func (c *fakeClient) BatchCall(ctx context.Context, requests []rpc.BatchRequest) ([]rpc.BatchResponse, error) {
	c.mu.Lock()
	for _, req := range requests {
		c.calls = append(c.calls, "batch:"+req.Method)
	}
	c.mu.Unlock()

	if c.batchHandler == nil {
		responses := make([]rpc.BatchResponse, len(requests))
		for i := range responses {
			responses[i] = rpc.BatchResponse{Error: fmt.Errorf("unscripted batch call")}
		}
		return responses, nil
	}
	return c.batchHandler(requests)
}

func (c *fakeClient) Close() error { return nil }

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func testParams(client rpc.Client) *chain.ConnectionParams {
	return &chain.ConnectionParams{
		ChainID:     domain.ChainIDEthereum,
		Name:        "Ethereum",
		Client:      client,
		Symbol:      "ETH",
		Decimals:    18,
		ExplorerURL: "https://etherscan.io/tx/%s",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// rawTx builds the JSON-RPC shape of an embedded block transaction.
func rawTx(hash, from, to, value string, nonce uint64) map[string]any {
	return map[string]any{
		"hash":     hash,
		"from":     from,
		"to":       to,
		"value":    value,
		"gasPrice": "0x3b9aca00",
		"nonce":    fmt.Sprintf("0x%x", nonce),
		"input":    "0x",
	}
}

// rawBlock builds the JSON-RPC shape of a block with embedded transactions.
func rawBlock(number, timestamp uint64, txs ...any) map[string]any {
	return map[string]any{
		"number":       fmt.Sprintf("0x%x", number),
		"timestamp":    fmt.Sprintf("0x%x", timestamp),
		"transactions": txs,
	}
}

// rawTransferLog builds the JSON-RPC shape of a Transfer event log.
func rawTransferLog(txHash, token, from, to string, blockNumber uint64, valueHex string, indexedValue bool) map[string]any {
	topics := []any{transferEventSig, addressTopic(from), addressTopic(to)}
	data := "0x"
	if indexedValue {
		topics = append(topics, valueHex)
	} else {
		data = valueHex
	}
	return map[string]any{
		"transactionHash": txHash,
		"address":         token,
		"blockNumber":     fmt.Sprintf("0x%x", blockNumber),
		"topics":          topics,
		"data":            data,
	}
}

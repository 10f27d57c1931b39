package scan

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/infra/rpc"
)

const (
	walletAddr = "0x1111111111111111111111111111111111111111"
	otherAddr  = "0x2222222222222222222222222222222222222222"
)

// receiptsByHash scripts BatchCall to answer eth_getTransactionReceipt from a
// hash-indexed fixture map.
func receiptsByHash(receipts map[string]map[string]any) func([]rpc.BatchRequest) ([]rpc.BatchResponse, error) {
	return func(requests []rpc.BatchRequest) ([]rpc.BatchResponse, error) {
		responses := make([]rpc.BatchResponse, len(requests))
		for i, req := range requests {
			hash, _ := req.Params[0].(string)
			if receipt, ok := receipts[hash]; ok {
				responses[i] = rpc.BatchResponse{Result: receipt}
			} else {
				responses[i] = rpc.BatchResponse{Error: errors.New("receipt not found")}
			}
		}
		return responses, nil
	}
}

func TestNativeFetch_FiltersByAddress(t *testing.T) {
	client := &fakeClient{
		handler: func(method string, params []any) (any, error) {
			if method != "eth_getBlockByNumber" {
				return nil, fmt.Errorf("unexpected method %s", method)
			}
			return rawBlock(5, 1700000000,
				rawTx("0xaaa", walletAddr, otherAddr, "0xde0b6b3a7640000", 1),
				rawTx("0xbbb", otherAddr, otherAddr, "0x1", 2),
				rawTx("0xccc", otherAddr, walletAddr, "0x2", 3),
			), nil
		},
		batchHandler: receiptsByHash(map[string]map[string]any{
			"0xaaa": {"status": "0x1", "gasUsed": "0x5208"},
			"0xccc": {"status": "0x0", "gasUsed": "0x5208"},
		}),
	}

	f := NewNativeFetcher(100, testLogger())
	txs := f.Fetch(context.Background(), testParams(client), walletAddr, 5, 5)

	if len(txs) != 2 {
		t.Fatalf("expected 2 matching transactions, got %d", len(txs))
	}
	if txs[0].Hash != "0xaaa" || txs[1].Hash != "0xccc" {
		t.Fatalf("unexpected hashes: %q, %q", txs[0].Hash, txs[1].Hash)
	}
	if txs[0].Status != domain.TxStatusSuccess {
		t.Errorf("expected 0xaaa success, got %q", txs[0].Status)
	}
	if txs[1].Status != domain.TxStatusFailed {
		t.Errorf("expected 0xccc failed, got %q", txs[1].Status)
	}
	if txs[0].GasUsed != 21000 {
		t.Errorf("expected gas used 21000, got %d", txs[0].GasUsed)
	}
	if txs[0].Value.String() != "1000000000000000000" {
		t.Errorf("unexpected value: %s", txs[0].Value.String())
	}
	if txs[0].Timestamp != 1700000000 {
		t.Errorf("expected block timestamp on the transaction, got %d", txs[0].Timestamp)
	}
}

func TestNativeFetch_FailedBlockSkipped(t *testing.T) {
	client := &fakeClient{
		handler: func(method string, params []any) (any, error) {
			if method != "eth_getBlockByNumber" {
				return nil, fmt.Errorf("unexpected method %s", method)
			}
			switch params[0] {
			case encodeBlockNumber(1):
				return rawBlock(1, 100, rawTx("0x01", walletAddr, otherAddr, "0x1", 1)), nil
			case encodeBlockNumber(2):
				return nil, errors.New("provider timeout")
			case encodeBlockNumber(3):
				return rawBlock(3, 300, rawTx("0x03", otherAddr, walletAddr, "0x3", 9)), nil
			}
			return nil, fmt.Errorf("unexpected block %v", params[0])
		},
		batchHandler: receiptsByHash(map[string]map[string]any{
			"0x01": {"status": "0x1", "gasUsed": "0x5208"},
			"0x03": {"status": "0x1", "gasUsed": "0x5208"},
		}),
	}

	f := NewNativeFetcher(100, testLogger())
	txs := f.Fetch(context.Background(), testParams(client), walletAddr, 1, 3)

	if len(txs) != 2 {
		t.Fatalf("expected the surviving blocks' transactions, got %d", len(txs))
	}
	if txs[0].Hash != "0x01" || txs[1].Hash != "0x03" {
		t.Errorf("unexpected hashes: %q, %q", txs[0].Hash, txs[1].Hash)
	}
}

func TestNativeFetch_ReceiptFailureLeavesPending(t *testing.T) {
	client := &fakeClient{
		handler: func(method string, params []any) (any, error) {
			return rawBlock(2, 200, rawTx("0x0a", walletAddr, otherAddr, "0x1", 1)), nil
		},
		batchHandler: func(requests []rpc.BatchRequest) ([]rpc.BatchResponse, error) {
			return nil, errors.New("batch not supported")
		},
	}

	f := NewNativeFetcher(100, testLogger())
	txs := f.Fetch(context.Background(), testParams(client), walletAddr, 2, 2)

	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Status != domain.TxStatusPending {
		t.Errorf("expected pending without a receipt, got %q", txs[0].Status)
	}
}

func TestNativeFetch_ContractCallClassification(t *testing.T) {
	call := rawTx("0x0b", walletAddr, otherAddr, "0x0", 4)
	call["input"] = "0xa9059cbb000000000000000000000000000000000000000000000000000000000000dead"

	client := &fakeClient{
		handler: func(method string, params []any) (any, error) {
			return rawBlock(7, 700, call), nil
		},
		batchHandler: receiptsByHash(map[string]map[string]any{
			"0x0b": {"status": "0x1", "gasUsed": "0x9470"},
		}),
	}

	f := NewNativeFetcher(100, testLogger())
	txs := f.Fetch(context.Background(), testParams(client), walletAddr, 7, 7)

	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Type != domain.TxTypeContractCall {
		t.Errorf("expected contract-call type, got %q", txs[0].Type)
	}
	if txs[0].MethodSelector != "0xa9059cbb" {
		t.Errorf("unexpected selector: %q", txs[0].MethodSelector)
	}
}

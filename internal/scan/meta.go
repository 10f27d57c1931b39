package scan

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/infra/rpc"
)

const (
	selectorSymbol   = "0x95d89b41" // symbol()
	selectorDecimals = "0x313ce567" // decimals()
)

type tokenMeta struct {
	symbol   string
	decimals uint8
}

type tsKey struct {
	chainID domain.ChainID
	number  uint64
}

// metaResolver memoizes token metadata and block timestamps across fetchers.
// Everything here is best-effort: a failed lookup caches the zero value so the
// same contract or block is not re-queried within the process lifetime.
type metaResolver struct {
	mu         sync.Mutex
	tokens     map[string]tokenMeta
	timestamps map[tsKey]uint64
}

func newMetaResolver() *metaResolver {
	return &metaResolver{
		tokens:     make(map[string]tokenMeta),
		timestamps: make(map[tsKey]uint64),
	}
}

// tokenMeta resolves symbol and decimals for a token contract via eth_call.
func (r *metaResolver) tokenMeta(ctx context.Context, client rpc.Client, chainID domain.ChainID, token string) tokenMeta {
	cacheKey := fmt.Sprintf("%d:%s", chainID, strings.ToLower(token))

	r.mu.Lock()
	meta, ok := r.tokens[cacheKey]
	r.mu.Unlock()
	if ok {
		return meta
	}

	if raw, err := ethCall(ctx, client, token, selectorSymbol); err == nil {
		meta.symbol = decodeABIString(raw)
	}
	if raw, err := ethCall(ctx, client, token, selectorDecimals); err == nil {
		if n, err := parseHexUint(raw); err == nil && n <= 255 {
			meta.decimals = uint8(n)
		}
	}

	r.mu.Lock()
	r.tokens[cacheKey] = meta
	r.mu.Unlock()
	return meta
}

// blockTime resolves a block's timestamp from its header. Returns 0 when the
// header cannot be fetched.
func (r *metaResolver) blockTime(ctx context.Context, client rpc.Client, chainID domain.ChainID, number uint64) uint64 {
	key := tsKey{chainID: chainID, number: number}

	r.mu.Lock()
	ts, ok := r.timestamps[key]
	r.mu.Unlock()
	if ok {
		return ts
	}

	result, err := client.Call(ctx, "eth_getBlockByNumber", []any{encodeBlockNumber(number), false})
	if err == nil {
		if raw, ok := result.(map[string]any); ok {
			ts, _ = parseHexUint(getString(raw["timestamp"]))
		}
	}

	r.mu.Lock()
	r.timestamps[key] = ts
	r.mu.Unlock()
	return ts
}

func ethCall(ctx context.Context, client rpc.Client, to, data string) (string, error) {
	result, err := client.Call(ctx, "eth_call", []any{
		map[string]any{"to": to, "data": data},
		"latest",
	})
	if err != nil {
		return "", err
	}
	return getString(result), nil
}

// decodeABIString handles both ABI-encoded dynamic strings and the legacy
// bytes32 form some older tokens return.
func decodeABIString(raw string) string {
	hexStr := strings.TrimPrefix(raw, "0x")
	if hexStr == "" {
		return ""
	}

	// Dynamic string: 32-byte offset, 32-byte length, then data.
	if len(hexStr) > 128 {
		length, err := parseHexUint(hexStr[64:128])
		if err != nil || 128+length*2 > uint64(len(hexStr)) {
			return ""
		}
		return decodeHexASCII(hexStr[128 : 128+length*2])
	}

	// bytes32: right-padded with zero bytes.
	return decodeHexASCII(strings.TrimRight(hexStr, "0"))
}

func decodeHexASCII(hexStr string) string {
	if len(hexStr)%2 != 0 {
		hexStr += "0"
	}
	var sb strings.Builder
	for i := 0; i+2 <= len(hexStr); i += 2 {
		n, err := parseHexUint(hexStr[i : i+2])
		if err != nil || n == 0 {
			continue
		}
		if n < 32 || n > 126 {
			return "" // not printable, not a symbol
		}
		sb.WriteByte(byte(n))
	}
	return sb.String()
}

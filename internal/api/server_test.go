package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/config"
	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/infra/cache"
	"github.com/vietddude/txhistory/internal/infra/rpc"
	"github.com/vietddude/txhistory/internal/scan"
)

const testWallet = "0x1111111111111111111111111111111111111111"

// stubClient fails every call; the routes under test never reach the chain.
type stubClient struct{}

func (stubClient) Call(ctx context.Context, method string, params []any) (any, error) {
	return nil, errors.New("not scripted")
}

func (stubClient) BatchCall(ctx context.Context, requests []rpc.BatchRequest) ([]rpc.BatchResponse, error) {
	return nil, errors.New("not scripted")
}

func (stubClient) Close() error { return nil }

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	registry := chain.NewRegistry(&chain.ConnectionParams{
		ChainID:  domain.ChainIDEthereum,
		Name:     "Ethereum",
		Client:   stubClient{},
		Symbol:   "ETH",
		Decimals: 18,
	})
	cfg := config.ScanConfig{
		Enabled:       true,
		MaxBlockRange: 1000,
		PageSize:      100,
	}
	store := cache.NewMemoryStore(time.Minute)
	scanner := scan.NewService(registry, store, cfg, slog.New(slog.DiscardHandler))
	return NewServer(scanner, registry, slog.New(slog.DiscardHandler), 0).Handler()
}

func do(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListChains(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/api/v1/chains")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Chains []map[string]any `json:"chains"`
		Total  int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "Ethereum", body.Chains[0]["name"])
}

func TestGetTransactions_UnsupportedChain(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/api/v1/999999/"+testWallet+"/transactions?from=0&to=10")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTransactions_BadChainID(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/api/v1/mainnet/"+testWallet+"/transactions")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTransactions_BadAddress(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/api/v1/1/nonsense/transactions")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTransactions_BadBlockParam(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/api/v1/1/"+testWallet+"/transactions?from=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTransactions_EmptyRange(t *testing.T) {
	// No fetchers are enabled, so a valid request yields an empty history
	// without ever touching the chain.
	rec := do(t, newTestHandler(t), http.MethodGet, "/api/v1/1/"+testWallet+"/transactions?from=0&to=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Transactions []json.RawMessage `json:"transactions"`
		Total        int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.Total)
	assert.Empty(t, body.Transactions)
}

func TestClearCache(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodDelete, "/api/v1/cache")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodOptions, "/api/v1/chains")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestValidAddress(t *testing.T) {
	assert.True(t, validAddress(testWallet))
	assert.True(t, validAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.False(t, validAddress("1111111111111111111111111111111111111111"))
	assert.False(t, validAddress("0x111"))
	assert.False(t, validAddress("0xZZ11111111111111111111111111111111111111"))
}

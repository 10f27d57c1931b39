package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/vietddude/txhistory/internal/metrics"
)

// HTTPProvider implements Client for JSON-RPC 2.0 over HTTP.
type HTTPProvider struct {
	name       string
	endpoint   string
	httpClient *http.Client

	mu           sync.RWMutex
	successCount int
	failureCount int
}

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     name,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Call makes a single JSON-RPC call.
func (p *HTTPProvider) Call(ctx context.Context, method string, params []any) (any, error) {
	metrics.RPCCallsTotal.WithLabelValues(p.name, method).Inc()
	start := time.Now()

	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.recordFailure(method)
		return nil, fmt.Errorf("rate limited (429), retry after: %s", resp.Header.Get("Retry-After"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.recordFailure(method)
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var rpcResp struct {
		Result any             `json:"result"`
		Error  *map[string]any `json:"error"`
	}

	if err := json.Unmarshal(body, &rpcResp); err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if rpcResp.Error != nil {
		errMsg := "unknown error"
		if msg, ok := (*rpcResp.Error)["message"].(string); ok {
			errMsg = msg
		}
		p.recordFailure(method)
		return nil, fmt.Errorf("rpc error: %s", errMsg)
	}

	p.recordSuccess()
	metrics.RPCLatency.WithLabelValues(p.name, method).Observe(time.Since(start).Seconds())

	return rpcResp.Result, nil
}

// BatchCall makes multiple RPC calls in one request.
func (p *HTTPProvider) BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	batchReq := make([]map[string]any, len(requests))
	for i, req := range requests {
		metrics.RPCCallsTotal.WithLabelValues(p.name, req.Method).Inc()
		batchReq[i] = map[string]any{
			"jsonrpc": "2.0",
			"method":  req.Method,
			"params":  req.Params,
			"id":      i + 1,
		}
	}

	jsonData, err := json.Marshal(batchReq)
	if err != nil {
		p.recordFailure("batch")
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		p.recordFailure("batch")
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordFailure("batch")
		return nil, fmt.Errorf("batch call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.recordFailure("batch")
		return nil, fmt.Errorf("read response: %w", err)
	}

	var batchResp []struct {
		ID     int             `json:"id"`
		Result any             `json:"result"`
		Error  *map[string]any `json:"error"`
	}

	if err := json.Unmarshal(body, &batchResp); err != nil {
		p.recordFailure("batch")
		return nil, fmt.Errorf("parse batch response: %w", err)
	}

	// Servers may reorder batch entries; align them by request id.
	responses := make([]BatchResponse, len(requests))
	for _, r := range batchResp {
		idx := r.ID - 1
		if idx < 0 || idx >= len(responses) {
			continue
		}
		if r.Error != nil {
			errMsg := "unknown error"
			if msg, ok := (*r.Error)["message"].(string); ok {
				errMsg = msg
			}
			responses[idx] = BatchResponse{Error: fmt.Errorf("rpc error: %s", errMsg)}
		} else {
			responses[idx] = BatchResponse{Result: r.Result}
		}
	}

	p.recordSuccess()
	return responses, nil
}

// GetName returns the provider's name.
func (p *HTTPProvider) GetName() string {
	return p.name
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) recordSuccess() {
	p.mu.Lock()
	p.successCount++
	p.mu.Unlock()
}

func (p *HTTPProvider) recordFailure(method string) {
	metrics.RPCErrorsTotal.WithLabelValues(p.name, method).Inc()
	p.mu.Lock()
	p.failureCount++
	p.mu.Unlock()
}

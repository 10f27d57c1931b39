// Package rpc provides the JSON-RPC transport for blockchain networks.
//
// The history scanner holds exactly one endpoint per chain, so the client
// surface stays small: single calls and batch calls over HTTP. Callers that
// can tolerate partial results are expected to absorb errors themselves.
package rpc

import "context"

// Client is what the scan layer programs against. Implementations must be
// safe for concurrent use.
type Client interface {
	// Call makes a single JSON-RPC call and returns the decoded result field.
	Call(ctx context.Context, method string, params []any) (any, error)

	// BatchCall makes multiple JSON-RPC calls in one HTTP request. The
	// returned slice is positionally aligned with the requests; per-entry
	// failures are reported on the entry, not as a call error.
	BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error)

	// Close cleans up resources.
	Close() error
}

// BatchRequest represents a single request in a batch call.
type BatchRequest struct {
	Method string
	Params []any
}

// BatchResponse represents a single response from a batch call.
type BatchResponse struct {
	Result any
	Error  error
}

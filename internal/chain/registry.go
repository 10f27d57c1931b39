// Package chain maps chain identifiers to connection parameters.
package chain

import (
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/txhistory/internal/core/config"
	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/infra/rpc"
)

// ErrUnsupportedChain is returned when no configuration exists for a chain ID.
// It is the only error the history service propagates to callers.
var ErrUnsupportedChain = errors.New("chain not supported")

// ConnectionParams bundles everything a scan needs to talk to one chain.
type ConnectionParams struct {
	ChainID     domain.ChainID
	Name        string
	Client      rpc.Client
	Symbol      string // native currency symbol
	Decimals    uint8  // native currency decimals
	ExplorerURL string // template, e.g. "https://etherscan.io/tx/%s"
}

// Registry is a pure lookup table built once at startup. It is never mutated
// after construction, so reads need no locking.
type Registry struct {
	chains map[domain.ChainID]*ConnectionParams
}

// NewRegistry builds a registry from pre-assembled connection parameters.
// Used directly by tests; production code goes through FromConfig.
func NewRegistry(params ...*ConnectionParams) *Registry {
	chains := make(map[domain.ChainID]*ConnectionParams, len(params))
	for _, p := range params {
		chains[p.ChainID] = p
	}
	return &Registry{chains: chains}
}

// FromConfig builds the registry with an HTTP RPC provider per configured
// chain.
func FromConfig(cfgs []config.ChainConfig, rpcTimeout time.Duration) *Registry {
	params := make([]*ConnectionParams, 0, len(cfgs))
	for _, c := range cfgs {
		name := c.Name
		if name == "" {
			name = domain.ChainIDToName[c.ChainID]
		}
		params = append(params, &ConnectionParams{
			ChainID:     c.ChainID,
			Name:        name,
			Client:      rpc.NewHTTPProvider(name, c.RPCURL, rpcTimeout),
			Symbol:      c.Symbol,
			Decimals:    c.Decimals,
			ExplorerURL: c.ExplorerURL,
		})
	}
	return NewRegistry(params...)
}

// All returns every configured chain's connection parameters, in no
// particular order.
func (r *Registry) All() []*ConnectionParams {
	params := make([]*ConnectionParams, 0, len(r.chains))
	for _, p := range r.chains {
		params = append(params, p)
	}
	return params
}

// Resolve returns connection parameters for a chain, or ErrUnsupportedChain.
func (r *Registry) Resolve(chainID domain.ChainID) (*ConnectionParams, error) {
	params, ok := r.chains[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}
	return params, nil
}

// Close releases every chain's RPC client.
func (r *Registry) Close() {
	for _, p := range r.chains {
		if p.Client != nil {
			p.Client.Close()
		}
	}
}

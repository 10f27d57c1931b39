package scan

import (
	"context"

	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/domain"
)

// Fetcher gathers transactions for one source over a block range.
//
// Implementations never fail the call: one bad block or log query must not
// abort the other sources, so per-unit errors are logged and swallowed and the
// result is a best-effort, possibly partial list.
type Fetcher interface {
	Fetch(ctx context.Context, params *chain.ConnectionParams, address string, fromBlock, toBlock uint64) []domain.Transaction
	Source() string
}

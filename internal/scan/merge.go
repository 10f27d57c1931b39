package scan

import (
	"sort"

	"github.com/vietddude/txhistory/internal/core/domain"
)

// Merge reconciles the three source lists into one canonical history.
//
// The concatenation order is a contract, not an accident: native, then
// fungible, then non-fungible. The first occurrence of a hash wins, so when a
// transaction both moves native currency and emits a token transfer, the
// native-sourced record is kept and the duplicate's token fields are dropped.
// Callers depend on that priority; revisit it only as a deliberate contract
// change.
func Merge(native, fungible, nonFungible []domain.Transaction) []domain.Transaction {
	merged := make([]domain.Transaction, 0, len(native)+len(fungible)+len(nonFungible))
	seen := make(map[string]struct{}, len(native)+len(fungible)+len(nonFungible))

	for _, list := range [][]domain.Transaction{native, fungible, nonFungible} {
		for _, tx := range list {
			if _, dup := seen[tx.Hash]; dup {
				continue
			}
			seen[tx.Hash] = struct{}{}
			merged = append(merged, tx)
		}
	}

	// Most recent first. Stable: equal block numbers keep their post-dedup
	// relative order, which is the only ordering callers may rely on.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].BlockNumber > merged[j].BlockNumber
	})

	return merged
}

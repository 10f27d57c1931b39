package scan

import (
	"errors"
	"sort"

	"github.com/vietddude/txhistory/internal/core/domain"
)

var (
	errInvalidBlock = errors.New("invalid block format")
	errInvalidLogs  = errors.New("invalid logs format")
)

func sortByBlockAscThenNonce(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].BlockNumber != txs[j].BlockNumber {
			return txs[i].BlockNumber < txs[j].BlockNumber
		}
		return txs[i].Nonce < txs[j].Nonce
	})
}

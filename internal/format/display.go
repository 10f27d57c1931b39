package format

import (
	"time"

	"github.com/vietddude/txhistory/internal/core/domain"
)

// ChainContext carries the per-chain values formatting needs.
type ChainContext struct {
	Symbol      string
	Decimals    uint8
	ExplorerURL string
}

// Display is the presentation-ready projection of one transaction.
type Display struct {
	Hash         string `json:"hash"`
	HashShort    string `json:"hash_short"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	StatusIcon   string `json:"status_icon"`
	From         string `json:"from"`
	FromShort    string `json:"from_short"`
	To           string `json:"to,omitempty"`
	ToShort      string `json:"to_short,omitempty"`
	Amount       string `json:"amount"`
	Symbol       string `json:"symbol"`
	TokenID      string `json:"token_id,omitempty"`
	Time         string `json:"time"`
	TimeRelative string `json:"time_relative"`
	ExplorerURL  string `json:"explorer_url,omitempty"`
}

// Transaction projects one record for display. The record itself is read,
// never written.
func Transaction(tx domain.Transaction, chainCtx ChainContext, now time.Time) Display {
	d := Display{
		Hash:         tx.Hash,
		HashShort:    Shorten(tx.Hash),
		Type:         TypeLabel(tx.Type),
		Status:       StatusLabel(tx.Status),
		StatusIcon:   StatusIndicator(tx.Status),
		From:         ChecksumAddress(tx.From),
		FromShort:    Shorten(ChecksumAddress(tx.From)),
		Time:         AbsoluteTime(tx.Timestamp),
		TimeRelative: RelativeTime(tx.Timestamp, now),
		ExplorerURL:  ExplorerURL(chainCtx.ExplorerURL, tx.Hash),
	}
	if tx.To != "" {
		d.To = ChecksumAddress(tx.To)
		d.ToShort = Shorten(d.To)
	}

	switch tx.Type {
	case domain.TxTypeFungibleTransfer, domain.TxTypeMultiToken:
		d.Amount = Amount(tx.TokenAmount, tx.TokenDecimals)
		d.Symbol = tx.TokenSymbol
	case domain.TxTypeNFTTransfer:
		d.Amount = "1"
		d.Symbol = tx.TokenSymbol
		if tx.TokenID != nil {
			d.TokenID = tx.TokenID.String()
		}
	default:
		d.Amount = Amount(tx.Value, chainCtx.Decimals)
		d.Symbol = chainCtx.Symbol
	}

	return d
}

// Transactions projects a whole batch with one shared "now".
func Transactions(txs []domain.Transaction, chainCtx ChainContext, now time.Time) []Display {
	out := make([]Display, len(txs))
	for i, tx := range txs {
		out[i] = Transaction(tx, chainCtx, now)
	}
	return out
}

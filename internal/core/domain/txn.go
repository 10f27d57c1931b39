package domain

import "math/big"

// Transaction is the unified record every source fetcher produces.
// It is built once per raw chain event and never mutated afterwards;
// Hash is the deduplication key across sources.
type Transaction struct {
	Hash        string   `json:"hash"`
	Type        TxType   `json:"type"`
	Status      TxStatus `json:"status"`
	From        string   `json:"from"`
	To          string   `json:"to,omitempty"` // empty for contract creations
	Value       *big.Int `json:"value"`
	BlockNumber uint64   `json:"block_number"`
	Timestamp   uint64   `json:"timestamp"` // chain time, seconds since epoch
	GasUsed     uint64   `json:"gas_used"`
	GasPrice    *big.Int `json:"gas_price,omitempty"`
	Nonce       uint64   `json:"nonce"`
	Input       string   `json:"input,omitempty"`
	// MethodSelector is the first 4 bytes of Input for contract calls.
	MethodSelector string `json:"method_selector,omitempty"`
	Error          string `json:"error,omitempty"`

	// Token fields, set only for transfer-typed records.
	TokenAddress  string   `json:"token_address,omitempty"`
	TokenSymbol   string   `json:"token_symbol,omitempty"`
	TokenDecimals uint8    `json:"token_decimals,omitempty"`
	TokenAmount   *big.Int `json:"token_amount,omitempty"` // fungible case
	TokenID       *big.Int `json:"token_id,omitempty"`     // non-fungible case
}

type TxType string

const (
	TxTypeNative           TxType = "native"
	TxTypeFungibleTransfer TxType = "fungible-transfer"
	TxTypeNFTTransfer      TxType = "non-fungible-transfer"
	TxTypeMultiToken       TxType = "multi-token-transfer"
	TxTypeContractCall     TxType = "contract-call"
	TxTypeInternal         TxType = "internal"
)

type TxStatus string

const (
	TxStatusSuccess TxStatus = "success"
	TxStatusFailed  TxStatus = "failed"
	TxStatusPending TxStatus = "pending"
)

// Package format turns raw on-chain values into display strings. Every
// function here is a pure transform; the underlying transaction is never
// touched.
package format

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/txhistory/internal/core/domain"
)

// maxFractionDigits bounds the decimal tail of a formatted amount.
const maxFractionDigits = 6

// Shorten renders a hash or address as "0x1234…abcd".
func Shorten(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// ChecksumAddress renders an address in EIP-55 mixed-case form.
func ChecksumAddress(address string) string {
	if address == "" {
		return ""
	}
	return common.HexToAddress(address).Hex()
}

// Amount scales an integer token amount by its decimals. At most six fraction
// digits, trailing zeros removed, whole numbers without a decimal point.
func Amount(v *big.Int, decimals uint8) string {
	if v == nil || v.Sign() == 0 {
		return "0"
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(v, scale, new(big.Int))

	fracStr := frac.String()
	if pad := int(decimals) - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	if len(fracStr) > maxFractionDigits {
		fracStr = strings.TrimRight(fracStr[:maxFractionDigits], "0")
	}

	if fracStr == "" {
		return whole.String()
	}
	return whole.String() + "." + fracStr
}

// TypeLabel maps a transaction type to its display label.
func TypeLabel(t domain.TxType) string {
	switch t {
	case domain.TxTypeNative:
		return "Transfer"
	case domain.TxTypeFungibleTransfer:
		return "Token Transfer"
	case domain.TxTypeNFTTransfer:
		return "NFT Transfer"
	case domain.TxTypeMultiToken:
		return "Multi-Token Transfer"
	case domain.TxTypeContractCall:
		return "Contract Call"
	case domain.TxTypeInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// StatusLabel maps a status to its display label.
func StatusLabel(s domain.TxStatus) string {
	switch s {
	case domain.TxStatusSuccess:
		return "Success"
	case domain.TxStatusFailed:
		return "Failed"
	case domain.TxStatusPending:
		return "Pending"
	default:
		return "Unknown"
	}
}

// StatusIndicator returns the glyph shown next to the status label.
func StatusIndicator(s domain.TxStatus) string {
	switch s {
	case domain.TxStatusSuccess:
		return "✅"
	case domain.TxStatusFailed:
		return "❌"
	case domain.TxStatusPending:
		return "⏳"
	default:
		return ""
	}
}

// AbsoluteTime renders chain time in the local timezone.
func AbsoluteTime(timestamp uint64) string {
	if timestamp == 0 {
		return ""
	}
	return time.Unix(int64(timestamp), 0).Local().Format("2006-01-02 15:04:05")
}

// RelativeTime renders chain time relative to now with fixed buckets; beyond
// a week it falls back to the calendar date.
func RelativeTime(timestamp uint64, now time.Time) string {
	if timestamp == 0 {
		return ""
	}

	diff := now.Unix() - int64(timestamp)
	switch {
	case diff < 60:
		return "just now"
	case diff < 3600:
		return fmt.Sprintf("%dm ago", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh ago", diff/3600)
	case diff < 604800:
		return fmt.Sprintf("%dd ago", diff/86400)
	default:
		return time.Unix(int64(timestamp), 0).Local().Format("Jan 2, 2006")
	}
}

// ExplorerURL builds a transaction link from the chain's template. Unknown
// chains (empty template) yield an empty string, not an error.
func ExplorerURL(template, hash string) string {
	if template == "" {
		return ""
	}
	if strings.Contains(template, "%s") {
		return fmt.Sprintf(template, hash)
	}
	return strings.TrimRight(template, "/") + "/" + hash
}

package scan

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// transferEventSig is the Transfer(address,address,uint256) topic shared by
// the ERC-20 and ERC-721 standards. The third value is an amount for ERC-20
// and a token ID for ERC-721; the log alone cannot tell which.
const transferEventSig = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

func getString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func parseHexUint(hexStr string) (uint64, error) {
	n := new(big.Int)
	if _, ok := n.SetString(strings.TrimPrefix(hexStr, "0x"), 16); !ok {
		return 0, fmt.Errorf("invalid hex: %s", hexStr)
	}
	return n.Uint64(), nil
}

func parseHexBigInt(hexStr string) (*big.Int, error) {
	if hexStr == "" || hexStr == "0x" {
		return big.NewInt(0), nil
	}
	n := new(big.Int)
	if _, ok := n.SetString(strings.TrimPrefix(hexStr, "0x"), 16); !ok {
		return nil, fmt.Errorf("invalid hex: %s", hexStr)
	}
	return n, nil
}

// addressTopic pads an address to the 32-byte form used in indexed topics.
func addressTopic(address string) string {
	return common.BytesToHash(common.HexToAddress(address).Bytes()).Hex()
}

// topicAddress recovers the address from a padded indexed topic.
func topicAddress(topic string) string {
	if len(topic) < 42 {
		return ""
	}
	return strings.ToLower("0x" + topic[len(topic)-40:])
}

func encodeBlockNumber(n uint64) string {
	return fmt.Sprintf("0x%x", n)
}

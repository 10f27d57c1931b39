package domain

// ChainID is the numeric EVM network identifier (1 = Ethereum mainnet).
type ChainID uint64

const (
	ChainIDEthereum ChainID = 1
	ChainIDPolygon  ChainID = 137
	ChainIDBSC      ChainID = 56
)

// ChainIDToName maps well-known chain IDs to display names. Chains configured
// at runtime do not need an entry here; the registry carries their metadata.
var ChainIDToName = map[ChainID]string{
	ChainIDEthereum: "Ethereum",
	ChainIDPolygon:  "Polygon",
	ChainIDBSC:      "BNB Smart Chain",
}

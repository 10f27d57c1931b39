package config

import (
	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/infra/cache"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Chains  []ChainConfig `yaml:"chains"`
	Scan    ScanConfig    `yaml:"scan"`
	Cache   cache.Config  `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ChainConfig holds settings for one supported blockchain.
type ChainConfig struct {
	ChainID     domain.ChainID `yaml:"id"`
	Name        string         `yaml:"name"`
	RPCURL      string         `yaml:"rpc_url"`
	Symbol      string         `yaml:"symbol"`   // native currency symbol
	Decimals    uint8          `yaml:"decimals"` // native currency decimals
	ExplorerURL string         `yaml:"explorer_url"`
}

// ScanConfig holds the tunable scan parameters. Loaded once at startup;
// a running scan never sees a change.
type ScanConfig struct {
	Enabled           bool   `yaml:"enabled"`
	MaxBlockRange     uint64 `yaml:"max_block_range"`
	PageSize          uint64 `yaml:"page_size"`
	CacheEnabled      bool   `yaml:"cache_enabled"`
	CacheTTLSeconds   int    `yaml:"cache_ttl_seconds"`
	IncludeNative     bool   `yaml:"include_native"`
	IncludeFungible   bool   `yaml:"include_fungible"`
	IncludeNFT        bool   `yaml:"include_nft"`
	// NFTValueThreshold separates token IDs from token amounts when a Transfer
	// log is standard-ambiguous. Best-effort classification, not authoritative.
	NFTValueThreshold uint64 `yaml:"nft_value_threshold"`
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	applyScanDefaults(&cfg.Scan)

	for i, chain := range cfg.Chains {
		if chain.ChainID == 0 {
			return nil, fmt.Errorf("chain %d: missing id", i)
		}
		if chain.RPCURL == "" {
			return nil, fmt.Errorf("chain %d (%d): missing rpc_url", i, chain.ChainID)
		}
		if cfg.Chains[i].Decimals == 0 {
			cfg.Chains[i].Decimals = 18
		}
	}

	return &cfg, nil
}

// applyScanDefaults fills zero values with the documented defaults.
func applyScanDefaults(s *ScanConfig) {
	if s.MaxBlockRange == 0 {
		s.MaxBlockRange = 1000
	}
	if s.PageSize == 0 {
		s.PageSize = 100
	}
	if s.CacheTTLSeconds == 0 {
		s.CacheTTLSeconds = 300
	}
	if s.NFTValueThreshold == 0 {
		s.NFTValueThreshold = 1_000_000
	}
}

package config

import (
	"time"

	"github.com/abya-university/ABYA-Ecosystem-sub001/store"
)

// NodeConfig holds where the node listens
type NodeConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	// KeyPath is the operator wallet used by CLI commands that sign requests
	KeyPath string `yaml:"key_path"`
}

// GenesisConfig holds the configuration from genesis.yml
type GenesisConfig struct {
	Node           NodeConfig        `yaml:"node"`
	Store          store.StoreConfig `yaml:"store"`
	Admin          string            `yaml:"admin"`
	Trustees       []string          `yaml:"trustees"`
	Treasurers     []string          `yaml:"treasurers"`
	InitialReserve string            `yaml:"initial_reserve"`
	Categories     []string          `yaml:"categories"`
}

// ConfigFile is the top-level structure for genesis.yml
type ConfigFile struct {
	Config GenesisConfig `yaml:"config"`
}

// TreasuryConfig is the [treasury] section of treasury.ini
type TreasuryConfig struct {
	QuorumMode       string `ini:"quorum_mode"`
	Quorum           int    `ini:"quorum"`
	QuorumFraction   string `ini:"quorum_fraction"`
	ExpiryDays       int    `ini:"expiry_days"`
	SweepIntervalSec int    `ini:"sweep_interval_sec"`
}

func (c *TreasuryConfig) ExpiryWindow() time.Duration {
	return time.Duration(c.ExpiryDays) * 24 * time.Hour
}

func (c *TreasuryConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// APIConfig is the [api] section of treasury.ini
type APIConfig struct {
	RateLimit       int `ini:"rate_limit"`
	RateWindowSec   int `ini:"rate_window_sec"`
	MaxClockSkewSec int `ini:"max_clock_skew_sec"`
	MaxBodyBytes    int `ini:"max_body_bytes"`
}

func (c *APIConfig) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSec) * time.Second
}

func (c *APIConfig) MaxClockSkew() time.Duration {
	return time.Duration(c.MaxClockSkewSec) * time.Second
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/store"
)

// LoadGenesisConfig reads and parses the genesis.yml file, filling defaults
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	logx.Info("CONFIG", "loading genesis config from ", path)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open genesis config: %w", err)
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfgFile); err != nil {
		return nil, fmt.Errorf("failed to decode genesis config: %w", err)
	}

	cfg := &cfgFile.Config
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logx.Info("CONFIG", fmt.Sprintf("genesis loaded: admin=%s trustees=%d treasurers=%d store=%s",
		cfg.Admin, len(cfg.Trustees), len(cfg.Treasurers), cfg.Store.Type))
	return cfg, nil
}

func (c *GenesisConfig) applyDefaults() {
	if c.Node.ListenAddr == "" {
		c.Node.ListenAddr = DefaultListenAddr
	}
	if c.Node.MetricsAddr == "" {
		c.Node.MetricsAddr = DefaultMetricsAddr
	}
	if c.Store.Type == "" {
		c.Store.Type = store.LevelDBStoreType
	}
	if c.Store.Directory == "" {
		c.Store.Directory = DefaultStoreDir
	}
	if len(c.Categories) == 0 {
		c.Categories = append([]string(nil), DefaultCategories...)
	}
	if c.InitialReserve == "" {
		c.InitialReserve = "0"
	}
}

// Validate checks every address and amount so the node fails at startup
// rather than on first use
func (c *GenesisConfig) Validate() error {
	if _, err := common.ParseAddress(c.Admin); err != nil {
		return fmt.Errorf("genesis admin: %w", err)
	}
	if _, err := parseAddresses(c.Trustees); err != nil {
		return fmt.Errorf("genesis trustees: %w", err)
	}
	if _, err := parseAddresses(c.Treasurers); err != nil {
		return fmt.Errorf("genesis treasurers: %w", err)
	}
	if _, err := c.Reserve(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat) == "" {
			return errors.New("allocation category cannot be empty")
		}
		if seen[cat] {
			return fmt.Errorf("duplicate allocation category %q", cat)
		}
		seen[cat] = true
	}
	return c.Store.Validate()
}

func (c *GenesisConfig) AdminAddress() common.Address {
	return common.MustParseAddress(c.Admin)
}

func (c *GenesisConfig) TrusteeAddresses() []common.Address {
	addrs, _ := parseAddresses(c.Trustees)
	return addrs
}

func (c *GenesisConfig) TreasurerAddresses() []common.Address {
	addrs, _ := parseAddresses(c.Treasurers)
	return addrs
}

// Reserve parses the initial reserve, accepting "_" digit separators
func (c *GenesisConfig) Reserve() (*uint256.Int, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(c.InitialReserve), "_", "")
	if raw == "" {
		return uint256.NewInt(0), nil
	}
	v, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid initial_reserve %q: %w", c.InitialReserve, err)
	}
	return v, nil
}

func parseAddresses(raw []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(raw))
	seen := make(map[common.Address]bool, len(raw))
	for _, s := range raw {
		addr, err := common.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		if seen[addr] {
			return nil, fmt.Errorf("duplicate address %s", addr)
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out, nil
}

// LoadTreasuryConfig reads the [treasury] section; a missing file yields defaults
func LoadTreasuryConfig(path string) (*TreasuryConfig, error) {
	cfg := DefaultTreasuryConfig()
	if err := mapSection(path, "treasury", cfg); err != nil {
		return nil, err
	}
	if cfg.ExpiryDays <= 0 {
		return nil, fmt.Errorf("expiry_days must be positive, got %d", cfg.ExpiryDays)
	}
	if cfg.SweepIntervalSec < 0 {
		return nil, fmt.Errorf("sweep_interval_sec cannot be negative, got %d", cfg.SweepIntervalSec)
	}
	return cfg, nil
}

// LoadAPIConfig reads the [api] section; a missing file yields defaults
func LoadAPIConfig(path string) (*APIConfig, error) {
	cfg := DefaultAPIConfig()
	if err := mapSection(path, "api", cfg); err != nil {
		return nil, err
	}
	if cfg.RateLimit <= 0 || cfg.RateWindowSec <= 0 {
		return nil, fmt.Errorf("rate_limit and rate_window_sec must be positive")
	}
	if cfg.MaxClockSkewSec <= 0 {
		return nil, fmt.Errorf("max_clock_skew_sec must be positive, got %d", cfg.MaxClockSkewSec)
	}
	return cfg, nil
}

func mapSection(path, section string, out interface{}) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logx.Warn("CONFIG", path, " not found, using default ", section, " settings")
		return nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := cfg.Section(section).MapTo(out); err != nil {
		return fmt.Errorf("failed to map [%s] from %s: %w", section, path, err)
	}
	return nil
}

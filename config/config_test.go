package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSampleGenesis(t *testing.T) {
	cfg, err := LoadGenesisConfig("genesis.yml")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Node.ListenAddr)
	assert.Equal(t, store.LevelDBStoreType, cfg.Store.Type)
	assert.Equal(t, common.Address("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), cfg.AdminAddress())
	assert.Len(t, cfg.TrusteeAddresses(), 3)
	assert.Len(t, cfg.TreasurerAddresses(), 1)

	reserve, err := cfg.Reserve()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), reserve.Uint64())
}

func TestGenesisDefaults(t *testing.T) {
	path := writeFile(t, "genesis.yml", `
config:
  admin: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
`)
	cfg, err := LoadGenesisConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.Node.ListenAddr)
	assert.Equal(t, DefaultMetricsAddr, cfg.Node.MetricsAddr)
	assert.Equal(t, DefaultStoreDir, cfg.Store.Directory)
	assert.Equal(t, DefaultCategories, cfg.Categories)
	// lower case input is normalized to its checksum form
	assert.Equal(t, common.Address("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), cfg.AdminAddress())

	reserve, err := cfg.Reserve()
	require.NoError(t, err)
	assert.True(t, reserve.IsZero())
}

func TestGenesisValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing admin", "config:\n  trustees: []\n"},
		{"bad checksum", "config:\n  admin: \"0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed\"\n"},
		{"duplicate trustee", `config:
  admin: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
  trustees: ["0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"]
`},
		{"bad reserve", `config:
  admin: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
  initial_reserve: "12abc"
`},
		{"duplicate category", `config:
  admin: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
  categories: [grants, grants]
`},
		{"unknown field", `config:
  admin: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
  leader_schedule: []
`},
		{"unsupported store", `config:
  admin: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
  store: {type: sqlite, directory: /tmp/x}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadGenesisConfig(writeFile(t, "genesis.yml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadTreasuryConfig(t *testing.T) {
	cfg, err := LoadTreasuryConfig(filepath.Join(t.TempDir(), "missing.ini"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTreasuryConfig(), cfg)
	assert.Equal(t, 30*24*time.Hour, cfg.ExpiryWindow())

	path := writeFile(t, "treasury.ini", `
[treasury]
quorum_mode = fraction
quorum_fraction = 3/4
expiry_days = 7
`)
	cfg, err = LoadTreasuryConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "fraction", cfg.QuorumMode)
	assert.Equal(t, "3/4", cfg.QuorumFraction)
	assert.Equal(t, DefaultQuorum, cfg.Quorum)
	assert.Equal(t, 7*24*time.Hour, cfg.ExpiryWindow())
	assert.Equal(t, time.Duration(DefaultSweepIntervalSec)*time.Second, cfg.SweepInterval())

	_, err = LoadTreasuryConfig(writeFile(t, "bad.ini", "[treasury]\nexpiry_days = 0\n"))
	assert.Error(t, err)
}

func TestLoadAPIConfig(t *testing.T) {
	cfg, err := LoadAPIConfig("treasury.ini")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow())
	assert.Equal(t, 5*time.Minute, cfg.MaxClockSkew())

	_, err = LoadAPIConfig(writeFile(t, "bad.ini", "[api]\nrate_limit = 0\n"))
	assert.Error(t, err)
}

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abya-university/ABYA-Ecosystem-sub001/wallet"
)

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("1_000_000")
	require.NoError(t, err)
	assert.Equal(t, "1000000", amount)

	_, err = parseAmount("1.5")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"0", "-1", "x"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestGenerateKeyRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "a.key")
	require.NoError(t, generateKey(path))

	w, err := wallet.LoadWallet(path)
	require.NoError(t, err)
	assert.False(t, w.Address.IsZero())

	assert.Error(t, generateKey(path))
}

func TestNewClientRequiresKeyForSigning(t *testing.T) {
	clientConfig.KeyFile = ""
	clientConfig.Endpoint = "http://localhost:8080"

	_, err := newClient(true)
	assert.Error(t, err)

	c, err := newClient(false)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"serve"}, {"keygen"},
		{"trustee", "add"}, {"trustee", "revoke"}, {"trustee", "list"}, {"trustee", "count"},
		{"treasurer", "grant"}, {"treasurer", "revoke"},
		{"funding", "request"}, {"funding", "approve"}, {"funding", "get"}, {"funding", "list"},
		{"allocate"}, {"deposit"}, {"pool"}, {"balance"},
		{"vesting", "create"}, {"vesting", "get"}, {"vesting", "release"}, {"vesting", "revoke"},
	} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

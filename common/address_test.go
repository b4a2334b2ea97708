package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddressChecksum(t *testing.T) {
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, v := range vectors {
		addr, err := ParseAddress(v)
		require.NoError(t, err, v)
		assert.Equal(t, Address(v), addr)

		lower, err := ParseAddress(strings.ToLower(v))
		require.NoError(t, err)
		assert.Equal(t, Address(v), lower, "lowercase input is checksummed")

		upper, err := ParseAddress("0x" + strings.ToUpper(v[2:]))
		require.NoError(t, err)
		assert.Equal(t, Address(v), upper)
	}
}

func TestParseAddressRejects(t *testing.T) {
	for _, bad := range []string{
		"",
		"0x",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAedaa",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeg",
		"0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	} {
		_, err := ParseAddress(bad)
		assert.Error(t, err, bad)
	}
}

func TestBytesToAddress(t *testing.T) {
	short := BytesToAddress([]byte{0x01})
	assert.Equal(t, "0x0000000000000000000000000000000000000001", strings.ToLower(short.String()))

	long := make([]byte, 32)
	long[31] = 0x02
	long[0] = 0xff
	assert.Equal(t, "0x0000000000000000000000000000000000000002", strings.ToLower(BytesToAddress(long).String()))

	assert.True(t, Address("").IsZero())
	assert.False(t, short.IsZero())
}

func TestBase58RoundTrip(t *testing.T) {
	data := []byte{0, 0, 1, 2, 3, 255}
	decoded, err := DecodeBase58ToBytes(EncodeBytesToBase58(data))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	_, err = DecodeBase58ToBytes("0OIl")
	assert.Error(t, err)
}

package common

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// AddressLength is the byte length of an account address
const AddressLength = 20

// Address is an EIP-55 checksummed, 0x-prefixed account address. The zero
// value is the empty address and is never valid as a participant.
type Address string

// Keccak256 hashes the concatenation of data with legacy Keccak-256
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// ParseAddress validates a hex address and returns its checksummed form.
// Mixed-case input must carry a correct checksum; all-lower and all-upper
// input is accepted as is.
func ParseAddress(s string) (Address, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != AddressLength*2 {
		return "", fmt.Errorf("invalid address length: %q", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid address hex: %q", s)
	}

	addr := BytesToAddress(b)
	if raw != strings.ToLower(raw) && raw != strings.ToUpper(raw) && string(addr)[2:] != raw {
		return "", fmt.Errorf("invalid address checksum: %q", s)
	}
	return addr, nil
}

// MustParseAddress is ParseAddress for constants and tests
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress checksums the last 20 bytes of b, left padding shorter input
func BytesToAddress(b []byte) Address {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	if len(b) < AddressLength {
		padded := make([]byte, AddressLength)
		copy(padded[AddressLength-len(b):], b)
		b = padded
	}
	lower := hex.EncodeToString(b)
	hash := Keccak256([]byte(lower))

	out := []byte(lower)
	for i := range out {
		if out[i] < 'a' {
			continue
		}
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] -= 'a' - 'A'
		}
	}
	return Address("0x" + string(out))
}

func (a Address) String() string {
	return string(a)
}

func (a Address) IsZero() bool {
	return a == ""
}

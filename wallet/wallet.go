// Package wallet holds secp256k1 account keys, derives their addresses and
// signs treasury actions in the format the API verifies.
package wallet

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

// ActionPrefix namespaces every signed treasury message
const ActionPrefix = "TREASURY_ACTION"

// Wallet is an account key and its derived address
type Wallet struct {
	key     *secp256k1.PrivateKey
	Address common.Address
}

// NewWallet generates a fresh random key
func NewWallet() (*Wallet, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return fromKey(key), nil
}

// FromPrivateKeyHex restores a wallet from a 32-byte hex key
func FromPrivateKeyHex(s string) (*Wallet, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("unsupported private key length: %d", len(raw))
	}
	return fromKey(secp256k1.PrivKeyFromBytes(raw)), nil
}

// LoadWallet reads a hex private key file
func LoadWallet(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return FromPrivateKeyHex(string(data))
}

func fromKey(key *secp256k1.PrivateKey) *Wallet {
	return &Wallet{key: key, Address: PubKeyToAddress(key.PubKey())}
}

// Save writes the private key as hex, readable only by the owner
func (w *Wallet) Save(path string) error {
	return os.WriteFile(path, []byte(w.PrivateKeyHex()), 0o600)
}

func (w *Wallet) PrivateKeyHex() string {
	return hex.EncodeToString(w.key.Serialize())
}

// PubKeyToAddress derives the account address from the uncompressed public key
func PubKeyToAddress(pub *secp256k1.PublicKey) common.Address {
	uncompressed := pub.SerializeUncompressed()
	return common.BytesToAddress(common.Keccak256(uncompressed[1:])[12:])
}

// SignHash produces a 65-byte recoverable compact signature over hash
func (w *Wallet) SignHash(hash []byte) []byte {
	return ecdsa.SignCompact(w.key, hash, false)
}

// SignAction signs an API call and returns the base58 signature header value.
// The nonce makes two identical calls in the same second sign differently.
func (w *Wallet) SignAction(method, path string, timestamp int64, nonce string, body []byte) string {
	return common.EncodeBytesToBase58(w.SignHash(ActionHash(method, path, timestamp, nonce, body)))
}

// ActionHash is the digest a caller signs to authenticate one API call
func ActionHash(method, path string, timestamp int64, nonce string, body []byte) []byte {
	message := fmt.Sprintf("%s:%s:%s:%d:%s:%x", ActionPrefix, strings.ToUpper(method), path, timestamp, nonce, common.Keccak256(body))
	return common.Keccak256([]byte(message))
}

// RecoverAddress returns the address whose key produced sig over hash
func RecoverAddress(hash, sig []byte) (common.Address, error) {
	pub, _, err := ecdsa.RecoverCompact(sig, hash)
	if err != nil {
		return "", fmt.Errorf("failed to recover signer: %w", err)
	}
	return PubKeyToAddress(pub), nil
}

// VerifyAction checks a base58 signature header against the claimed address
func VerifyAction(claimed common.Address, signatureB58, method, path string, timestamp int64, nonce string, body []byte) error {
	sig, err := common.DecodeBase58ToBytes(signatureB58)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}
	signer, err := RecoverAddress(ActionHash(method, path, timestamp, nonce, body), sig)
	if err != nil {
		return err
	}
	if signer != claimed {
		return fmt.Errorf("signature belongs to %s, not %s", signer, claimed)
	}
	return nil
}

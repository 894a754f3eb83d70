package blockchain

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// KeyPair is a secp256k1 keypair. The secret key never leaves the node that
// generated it except when a client supplies it directly in a send request.
type KeyPair struct {
	Secret *btcec.PrivateKey
	Public *btcec.PublicKey
}

// GenerateKeyPair creates a fresh secp256k1 keypair
func GenerateKeyPair() (*KeyPair, error) {
	secret, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret key: %w", err)
	}
	return &KeyPair{Secret: secret, Public: secret.PubKey()}, nil
}

// EncodePublicKey returns the compressed hex form of a public key.
// This string is the key's identity everywhere: transactions, balances,
// and the wire format all use it.
func EncodePublicKey(pub *btcec.PublicKey) string {
	return hex.EncodeToString(pub.SerializeCompressed())
}

// EncodeSecretKey returns the 32-byte hex form of a secret key
func EncodeSecretKey(secret *btcec.PrivateKey) string {
	return hex.EncodeToString(secret.Serialize())
}

// ParsePublicKey decodes a compressed hex public key.
// A malformed encoding is an error, not an invalid-key boolean.
func ParsePublicKey(s string) (*btcec.PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("public key is not valid hex: %w", err)
	}
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse public key: %w", err)
	}
	return pub, nil
}

// ParseSecretKey decodes a 32-byte hex secret key
func ParseSecretKey(s string) (*btcec.PrivateKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("secret key is not valid hex: %w", err)
	}
	if len(raw) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(raw))
	}
	secret, _ := btcec.PrivKeyFromBytes(raw)
	// PrivKeyFromBytes reduces the scalar mod the group order, so a zero or
	// overflowing input yields a key that signs for a different identity than
	// the bytes supplied, or for no valid curve point at all.
	if secret.Key.IsZero() || !bytes.Equal(secret.Serialize(), raw) {
		return nil, fmt.Errorf("secret key scalar is out of range")
	}
	return secret, nil
}

package blockchain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// Transaction is an immutable signed transfer record. From and To are
// compressed-hex public keys; Signature is the hex of a DER-encoded ECDSA
// signature by From's key over TransactionDigest(From, To, Amount).
type Transaction struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Signature string `json:"signature"`
}

// TransactionDigest computes the digest a transaction signature covers:
// SHA-256 over the from key string, the to key string, and the big-endian
// amount bytes, in that order.
func TransactionDigest(from, to string, amount uint64) [32]byte {
	h := sha256.New()
	h.Write([]byte(from))
	h.Write([]byte(to))
	amountBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(amountBytes, amount)
	h.Write(amountBytes)
	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// NewTransaction signs a transfer of amount from the holder of the secret
// key to the given public key. The sender's public field is derived from the
// secret key, never supplied separately.
func NewTransaction(to *btcec.PublicKey, from *btcec.PrivateKey, amount uint64) (Transaction, error) {
	if to == nil || from == nil {
		return Transaction{}, fmt.Errorf("transaction requires both keys")
	}
	fromHex := EncodePublicKey(from.PubKey())
	toHex := EncodePublicKey(to)
	digest := TransactionDigest(fromHex, toHex, amount)
	sig := ecdsa.Sign(from, digest[:])
	return Transaction{
		From:      fromHex,
		To:        toHex,
		Amount:    amount,
		Signature: hex.EncodeToString(sig.Serialize()),
	}, nil
}

// Verify checks the signature against the transaction's own From key.
// A well-formed signature that does not verify returns (false, nil); a
// signature or key that cannot be decoded at all is an error.
func (tx *Transaction) Verify() (bool, error) {
	pub, err := ParsePublicKey(tx.From)
	if err != nil {
		return false, fmt.Errorf("transaction sender: %w", err)
	}
	sigBytes, err := hex.DecodeString(tx.Signature)
	if err != nil {
		return false, fmt.Errorf("signature is not valid hex: %w", err)
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false, fmt.Errorf("could not parse signature: %w", err)
	}
	digest := TransactionDigest(tx.From, tx.To, tx.Amount)
	return sig.Verify(digest[:], pub), nil
}

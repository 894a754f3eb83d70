package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Chain is an append-only sequence of sealed blocks. The zero value is the
// valid genesis state: no blocks, every identity at its genesis credit.
type Chain struct {
	Blocks []Block `json:"chain"`
}

// LastHash returns the hash new blocks must link to: the tip block's hash,
// or GenesisPrevHash for an empty chain
func (c *Chain) LastHash() string {
	if len(c.Blocks) == 0 {
		return GenesisPrevHash
	}
	return c.Blocks[len(c.Blocks)-1].Hash
}

// AddBlock mines a new block carrying the transaction onto the tip of the
// chain and appends it. Each block carries exactly one transaction.
func (c *Chain) AddBlock(tx Transaction) (Block, error) {
	block, err := NewBlock(tx, c.LastHash())
	if err != nil {
		return Block{}, fmt.Errorf("failed to mine block: %w", err)
	}
	c.Blocks = append(c.Blocks, block)
	return block, nil
}

// Length returns the number of blocks in the chain. The value receiver lets
// callers take the length of a chain returned by value.
func (c Chain) Length() int {
	return len(c.Blocks)
}

// Copy returns an independent copy of the chain. Blocks are value types, so
// copying the slice is a deep copy.
func (c *Chain) Copy() Chain {
	if len(c.Blocks) == 0 {
		return Chain{}
	}
	blocks := make([]Block, len(c.Blocks))
	copy(blocks, c.Blocks)
	return Chain{Blocks: blocks}
}

// Fingerprint is the chain's identity for voting: two chains share a
// fingerprint iff every field of every block matches positionally. Realized
// as the SHA-256 of the canonical JSON encoding.
func (c *Chain) Fingerprint() string {
	encoded, err := json.Marshal(c)
	if err != nil {
		// Chain contains only strings and integers; Marshal cannot fail
		panic(fmt.Sprintf("chain encoding failed: %v", err))
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// Equal reports positional field-for-field equality with another chain
func (c *Chain) Equal(other *Chain) bool {
	if len(c.Blocks) != len(other.Blocks) {
		return false
	}
	for i := range c.Blocks {
		if c.Blocks[i] != other.Blocks[i] {
			return false
		}
	}
	return true
}

package blockchain

import (
	"fmt"
)

// ErrBrokenLinkage is returned when a block does not link to its predecessor
type ErrBrokenLinkage struct {
	Height int
	Want   string
	Got    string
}

func (e ErrBrokenLinkage) Error() string {
	return fmt.Sprintf("block %d links to %q, expected %q", e.Height, e.Got, e.Want)
}

// ValidateChain walks every block of a chain and checks the linkage
// invariant and each block's seal and signature. Any chain received from a
// peer must pass this before it is tallied, adopted, or installed; the
// ledger never trusts foreign blocks by popularity alone. An empty chain is
// valid (genesis state).
func ValidateChain(c *Chain, difficulty int) error {
	prevHash := GenesisPrevHash
	for i := range c.Blocks {
		block := &c.Blocks[i]
		if block.PrevBlockHash != prevHash {
			return ErrBrokenLinkage{Height: i, Want: prevHash, Got: block.PrevBlockHash}
		}
		ok, err := block.Verify(difficulty)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("block %d failed seal or signature verification", i)
		}
		prevHash = block.Hash
	}
	return nil
}

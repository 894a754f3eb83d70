package blockchain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChain(t *testing.T) {
	valid := testChain(t, 3)

	t.Run("valid chain passes", func(t *testing.T) {
		assert.NoError(t, ValidateChain(&valid, Difficulty))
	})

	t.Run("prefix of a valid chain passes", func(t *testing.T) {
		prefix := Chain{Blocks: valid.Blocks[:2]}
		assert.NoError(t, ValidateChain(&prefix, Difficulty))
	})

	t.Run("broken linkage", func(t *testing.T) {
		broken := valid.Copy()
		broken.Blocks[1].PrevBlockHash = "1"
		err := ValidateChain(&broken, Difficulty)
		require.Error(t, err)
		var linkErr ErrBrokenLinkage
		assert.True(t, errors.As(err, &linkErr))
		assert.Equal(t, 1, linkErr.Height)
	})

	t.Run("first block must link to genesis", func(t *testing.T) {
		broken := valid.Copy()
		broken.Blocks[0].PrevBlockHash = "deadbeef"
		assert.Error(t, ValidateChain(&broken, Difficulty))
	})

	t.Run("tampered amount", func(t *testing.T) {
		tampered := valid.Copy()
		tampered.Blocks[2].Transaction.Amount += 1000
		assert.Error(t, ValidateChain(&tampered, Difficulty))
	})

	t.Run("forged block without proof of work", func(t *testing.T) {
		forged := valid.Copy()
		tip := &forged.Blocks[2]
		tip.Nonce = 0
		tip.Hash = tip.computeHash()
		if HashMeetsDifficulty(tip.Hash, Difficulty) {
			t.Skip("nonce 0 happened to seal the block")
		}
		assert.Error(t, ValidateChain(&forged, Difficulty))
	})

	t.Run("undecodable signature material", func(t *testing.T) {
		garbled := valid.Copy()
		garbled.Blocks[0].Transaction.Signature = "zz"
		assert.Error(t, ValidateChain(&garbled, Difficulty))
	})
}

package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"goledger/blockchain"
	"goledger/ledger"
	"goledger/mocks"
)

func TestMajorityCopySelector(t *testing.T) {
	short := buildChain(t, 1)
	long := buildChain(t, 3)

	selector := ledger.MajorityCopySelector{}

	t.Run("single candidate wins", func(t *testing.T) {
		got := selector.Choose([]ledger.ChainVote{{Chain: short, Count: 1}})
		assert.True(t, short.Equal(&got))
	})

	t.Run("copy count beats length", func(t *testing.T) {
		got := selector.Choose([]ledger.ChainVote{
			{Chain: long, Count: 1},
			{Chain: short, Count: 2},
		})
		assert.True(t, short.Equal(&got))
	})

	t.Run("tie falls to the earlier candidate", func(t *testing.T) {
		got := selector.Choose([]ledger.ChainVote{
			{Chain: long, Count: 2},
			{Chain: short, Count: 2},
		})
		assert.True(t, long.Equal(&got))
	})
}

// lastVoteSelector always keeps the final candidate, which Sync tallies
// last: the local chain. Stands in for an alternative consensus rule.
type lastVoteSelector struct{}

func (lastVoteSelector) Choose(votes []ledger.ChainVote) blockchain.Chain {
	return votes[len(votes)-1].Chain
}

func TestSelectorIsSwappable(t *testing.T) {
	peerB := "127.0.0.1:3001"
	remote := buildChain(t, 1)

	transport := mocks.NewTransport()
	transport.ServePeer(peerB, nil, &remote)

	l := ledger.New(nodeAddr, []string{peerB}, transport)
	l.SetSelector(lastVoteSelector{})

	l.Sync(context.Background())

	// The default rule would adopt the peer's chain here (1-1 tie, peer
	// seen first); the swapped rule keeps the local empty chain instead
	assert.Equal(t, 0, l.Chain().Length())
}

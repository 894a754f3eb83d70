package ledger

import (
	"goledger/blockchain"
)

// ChainVote pairs a candidate chain with the number of nodes (peers plus
// possibly this node) observed holding an identical copy of it.
type ChainVote struct {
	Chain blockchain.Chain
	Count int
}

// ChainSelector decides which candidate chain the ledger adopts after a
// reconciliation round. Kept behind an interface so the voting rule can be
// swapped (e.g. for longest-chain) without touching submission or mining.
type ChainSelector interface {
	// Choose picks the winning chain from the tallied votes. Votes arrive in
	// first-seen order and are never empty (the local chain always votes).
	Choose(votes []ChainVote) blockchain.Chain
}

// MajorityCopySelector adopts the chain held identically by the largest
// number of reachable nodes. This is copy-count consensus, not longest-chain:
// a shorter chain replicated on more nodes beats a longer one. Only a
// strictly higher count displaces the current winner, so a tie falls to the
// earlier-seen candidate; which candidate that is depends on peer iteration
// order and is deliberately left implementation-defined.
type MajorityCopySelector struct{}

func (MajorityCopySelector) Choose(votes []ChainVote) blockchain.Chain {
	winner := votes[0]
	for _, vote := range votes[1:] {
		if vote.Count > winner.Count {
			winner = vote
		}
	}
	return winner.Chain
}

package ledger

import (
	"context"
	"log"

	"goledger/blockchain"
)

// Sync runs one reconciliation round against the current peer set.
//
// For every peer except this node it announces itself (best-effort), pulls
// the peer's peer list, and pulls the peer's chain. Fetched chains must pass
// full validation before they are tallied; each distinct valid chain gets
// one vote per peer holding an identical copy, plus one self-vote for the
// local chain. The selector's winner then replaces the local chain.
//
// Network I/O runs without the ledger lock. Discovered peers and the adopted
// chain are applied in a single atomic update at the end of the round, so no
// peer's response ever touches live state mid-reconciliation. Sync never
// fails: if no peer responds, the self-vote wins and the chain stays put.
func (l *Ledger) Sync(ctx context.Context) {
	l.mu.RLock()
	self := l.addr
	peers := l.peersLocked()
	local := l.chain.Copy()
	selector := l.selector
	l.mu.RUnlock()

	var votes []ChainVote
	index := make(map[string]int)
	tally := func(chain blockchain.Chain) {
		fp := chain.Fingerprint()
		if i, ok := index[fp]; ok {
			votes[i].Count++
			return
		}
		index[fp] = len(votes)
		votes = append(votes, ChainVote{Chain: chain, Count: 1})
	}

	discovered := make(map[string]struct{})
	for _, peer := range peers {
		if peer == self {
			continue
		}

		// Failure to announce is logged but the peer is still polled
		if err := l.transport.Announce(ctx, peer, self); err != nil {
			log.Printf("SYNC\tannounce to %s failed: %v", peer, err)
		}

		remotePeers, err := l.transport.FetchPeers(ctx, peer)
		if err != nil {
			log.Printf("SYNC\tcould not fetch peers from %s: %v", peer, err)
			continue
		}
		for _, p := range remotePeers {
			discovered[p] = struct{}{}
		}

		remoteChain, err := l.transport.FetchChain(ctx, peer)
		if err != nil {
			log.Printf("SYNC\tcould not fetch chain from %s: %v", peer, err)
			continue
		}
		if err := blockchain.ValidateChain(remoteChain, blockchain.Difficulty); err != nil {
			log.Printf("SYNC\tdiscarding invalid chain from %s: %v", peer, err)
			continue
		}
		tally(remoteChain.Copy())
	}

	// The local chain as of the start of the round votes once too
	tally(local)

	winner := selector.Choose(votes)

	l.mu.Lock()
	for p := range discovered {
		l.peers[p] = struct{}{}
	}
	l.chain = winner
	l.mu.Unlock()
}

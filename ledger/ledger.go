package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"

	"goledger/blockchain"
)

// GenesisCredit is the implicit starting balance of every identity. There is
// no genesis block; the credit exists by construction of Balance.
const GenesisCredit int64 = 100

// ErrInsufficientFunds is returned by Send when the sender's balance does
// not cover the amount. The chain is left untouched.
var ErrInsufficientFunds = errors.New("insufficient funds for transaction")

// Ledger is one node's view of the network: its chain, its own address, and
// the set of peers it gossips with. All state is in-memory only; a restart
// keeps nothing except what reconciliation re-acquires from peers.
//
// A single RWMutex guards the state. Proof-of-work never runs under the
// lock: Send mines against a tip snapshot and re-checks before appending, so
// balance and chain reads are not starved by an in-flight submission.
type Ledger struct {
	mu    sync.RWMutex
	chain blockchain.Chain
	addr  string
	peers map[string]struct{}

	// pendingTransactions is a buffer reserved for future transaction
	// batching. Submission currently seals one block per transaction and
	// never reads it.
	pendingTransactions []blockchain.Transaction

	transport PeerTransport
	selector  ChainSelector
}

// New creates a ledger for the node at addr, seeded with initialPeers
func New(addr string, initialPeers []string, transport PeerTransport) *Ledger {
	peers := make(map[string]struct{}, len(initialPeers))
	for _, p := range initialPeers {
		peers[p] = struct{}{}
	}
	return &Ledger{
		addr:      addr,
		peers:     peers,
		transport: transport,
		selector:  MajorityCopySelector{},
	}
}

// SetSelector swaps the consensus rule. Intended for tests and for replacing
// majority-copy voting without touching submission or mining code.
func (l *Ledger) SetSelector(s ChainSelector) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selector = s
}

// Addr returns this node's network address
func (l *Ledger) Addr() string {
	return l.addr
}

// Balance derives the balance of a public key (compressed hex) from the
// chain: the genesis credit, minus outgoing amounts, plus incoming amounts.
// Self-transfers are skipped entirely. Pure function of chain and key.
func (l *Ledger) Balance(pub string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return balanceOf(&l.chain, pub)
}

func balanceOf(chain *blockchain.Chain, pub string) int64 {
	balance := GenesisCredit
	for i := range chain.Blocks {
		tx := &chain.Blocks[i].Transaction
		switch {
		case pub != tx.From && pub != tx.To:
			// not involved
		case pub == tx.From && pub == tx.To:
			// self-transfer nets to zero
		case pub == tx.To:
			balance += int64(tx.Amount)
		case pub == tx.From:
			balance -= int64(tx.Amount)
		}
	}
	return balance
}

// Send submits a transfer: checks the sender's balance, mines a block for
// the signed transaction, appends it, and broadcasts the updated chain to
// every peer. Only the local append is part of the success contract; peer
// delivery is best-effort and failures are logged, never surfaced.
func (l *Ledger) Send(ctx context.Context, to *btcec.PublicKey, from *btcec.PrivateKey, amount uint64) error {
	tx, err := blockchain.NewTransaction(to, from, amount)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	for {
		l.mu.Lock()
		// Amounts beyond the signed range can never be covered; comparing
		// them through int64 would wrap negative and slip past the check.
		if amount > math.MaxInt64 || int64(amount) > balanceOf(&l.chain, tx.From) {
			l.mu.Unlock()
			return ErrInsufficientFunds
		}
		prevHash := l.chain.LastHash()
		l.mu.Unlock()

		// Mine without the lock so reads keep flowing during proof-of-work
		block, err := blockchain.NewBlock(tx, prevHash)
		if err != nil {
			return fmt.Errorf("failed to mine block: %w", err)
		}

		l.mu.Lock()
		if l.chain.LastHash() != prevHash {
			// Tip moved while mining; re-check funds and re-mine
			l.mu.Unlock()
			continue
		}
		l.chain.Blocks = append(l.chain.Blocks, block)
		updated := l.chain.Copy()
		peers := l.peersLocked()
		l.mu.Unlock()

		go l.broadcast(context.WithoutCancel(ctx), peers, &updated)
		return nil
	}
}

// broadcast pushes the chain to every peer, fire-and-forget
func (l *Ledger) broadcast(ctx context.Context, peers []string, chain *blockchain.Chain) {
	for _, peer := range peers {
		if peer == l.addr {
			continue
		}
		if err := l.transport.PushChain(ctx, peer, chain); err != nil {
			log.Printf("LEDGER\tfailed to push chain to %s: %v", peer, err)
		}
	}
}

// AddPeer registers a peer address. Peers are only ever added; an
// unreachable peer keeps its slot and is retried every reconciliation.
func (l *Ledger) AddPeer(addr string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.peers[addr]; !ok {
		log.Printf("LEDGER\tadding %s as a peer", addr)
		l.peers[addr] = struct{}{}
	}
}

// Peers returns the known peer addresses, sorted
func (l *Ledger) Peers() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.peersLocked()
}

func (l *Ledger) peersLocked() []string {
	peers := make([]string, 0, len(l.peers))
	for p := range l.peers {
		peers = append(peers, p)
	}
	sort.Strings(peers)
	return peers
}

// Chain returns a copy of the current chain
func (l *Ledger) Chain() blockchain.Chain {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chain.Copy()
}

// ReplaceChain installs a chain pushed by a peer. The chain must pass full
// validation first; a node that adopts pushed chains blindly can be handed
// arbitrary balances.
func (l *Ledger) ReplaceChain(chain *blockchain.Chain) error {
	if err := blockchain.ValidateChain(chain, blockchain.Difficulty); err != nil {
		return fmt.Errorf("rejecting pushed chain: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chain = chain.Copy()
	return nil
}

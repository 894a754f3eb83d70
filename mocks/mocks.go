// Package mocks provides an in-memory peer transport and deterministic key
// helpers so ledger behavior can be tested without any networking.
package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"

	"goledger/blockchain"
)

// ErrPeerUnreachable is the canned failure injected for scripted-down peers
var ErrPeerUnreachable = errors.New("peer unreachable")

// DeterministicKeyPair derives a keypair from a single seed byte. Tests use
// it to get stable identities without touching the system RNG.
func DeterministicKeyPair(seed byte) *blockchain.KeyPair {
	raw := make([]byte, btcec.PrivKeyBytesLen)
	for i := range raw {
		raw[i] = seed
	}
	raw[len(raw)-1] |= 1 // keep the scalar non-zero
	secret, pub := btcec.PrivKeyFromBytes(raw)
	return &blockchain.KeyPair{Secret: secret, Public: pub}
}

// Transport is a scriptable in-memory ledger.PeerTransport. Each peer
// address can be given a peer list and a chain to serve, or marked
// unreachable per operation. It records every announce and push it sees.
type Transport struct {
	mu sync.Mutex

	// Scripted responses, keyed by peer address
	PeerLists map[string][]string
	Chains    map[string]*blockchain.Chain

	// Scripted failures, keyed by peer address
	AnnounceErrs map[string]error
	PeerListErrs map[string]error
	ChainErrs    map[string]error
	PushErrs     map[string]error

	// Recorded traffic
	Announces []string
	Pushes    map[string][]blockchain.Chain
}

// NewTransport creates an empty scriptable transport
func NewTransport() *Transport {
	return &Transport{
		PeerLists:    make(map[string][]string),
		Chains:       make(map[string]*blockchain.Chain),
		AnnounceErrs: make(map[string]error),
		PeerListErrs: make(map[string]error),
		ChainErrs:    make(map[string]error),
		PushErrs:     make(map[string]error),
		Pushes:       make(map[string][]blockchain.Chain),
	}
}

// ServePeer scripts a healthy peer serving the given peer list and chain
func (t *Transport) ServePeer(addr string, peers []string, chain *blockchain.Chain) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.PeerLists[addr] = peers
	t.Chains[addr] = chain
}

// FailPeer scripts a peer that is unreachable for every operation
func (t *Transport) FailPeer(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.AnnounceErrs[addr] = ErrPeerUnreachable
	t.PeerListErrs[addr] = ErrPeerUnreachable
	t.ChainErrs[addr] = ErrPeerUnreachable
	t.PushErrs[addr] = ErrPeerUnreachable
}

func (t *Transport) Announce(ctx context.Context, peer, self string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.AnnounceErrs[peer]; err != nil {
		return err
	}
	t.Announces = append(t.Announces, peer)
	return nil
}

func (t *Transport) FetchPeers(ctx context.Context, peer string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.PeerListErrs[peer]; err != nil {
		return nil, err
	}
	peers, ok := t.PeerLists[peer]
	if !ok {
		return nil, ErrPeerUnreachable
	}
	return append([]string(nil), peers...), nil
}

func (t *Transport) FetchChain(ctx context.Context, peer string) (*blockchain.Chain, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ChainErrs[peer]; err != nil {
		return nil, err
	}
	chain, ok := t.Chains[peer]
	if !ok {
		return nil, ErrPeerUnreachable
	}
	copied := chain.Copy()
	return &copied, nil
}

func (t *Transport) PushChain(ctx context.Context, peer string, chain *blockchain.Chain) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.PushErrs[peer]; err != nil {
		return err
	}
	t.Pushes[peer] = append(t.Pushes[peer], chain.Copy())
	return nil
}

// PushCount returns how many chain pushes a peer has received
func (t *Transport) PushCount(peer string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Pushes[peer])
}

// AnnounceCount returns how many announces a peer has received
func (t *Transport) AnnounceCount(peer string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, a := range t.Announces {
		if a == peer {
			count++
		}
	}
	return count
}

package ledger

import (
	"context"

	"goledger/blockchain"
)

// PeerTransport is everything the ledger needs from the network. The ledger
// does not distinguish network-down from malformed-payload: any failure
// surfaces as a single error and the peer's contribution is dropped for the
// cycle. The p2p package implements this over HTTP; mocks.Transport
// implements it in memory for tests.
type PeerTransport interface {
	// Announce notifies the peer of this node's address
	Announce(ctx context.Context, peer, self string) error

	// FetchPeers returns the peer's known peer addresses
	FetchPeers(ctx context.Context, peer string) ([]string, error)

	// FetchChain returns the peer's full chain
	FetchChain(ctx context.Context, peer string) (*blockchain.Chain, error)

	// PushChain sends this node's full chain to the peer
	PushChain(ctx context.Context, peer string, chain *blockchain.Chain) error
}

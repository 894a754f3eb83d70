package node

import (
	"context"
	"log"
	"time"

	"goledger/api"
	"goledger/ledger"
	"goledger/p2p"
)

// Node wires a ledger, its HTTP API, and the reconciliation ticker into one
// running process
type Node struct {
	config Config
	ledger *ledger.Ledger
	api    *api.Server

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a node from its configuration
func New(config Config) *Node {
	l := ledger.New(config.Addr, config.SeedPeers, p2p.NewHTTPTransport())
	return &Node{
		config: config,
		ledger: l,
		api:    api.NewServer(l, ":"+config.Port),
		done:   make(chan struct{}),
	}
}

// Ledger exposes the node's ledger, mainly for tests
func (n *Node) Ledger() *ledger.Ledger {
	return n.ledger
}

// Start launches the API server and the periodic reconciliation loop, then
// blocks serving HTTP until Stop is called
func (n *Node) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	go n.syncLoop(ctx)

	log.Printf("NODE\t%s started, reconciling every %s with %d seed peers",
		n.config.Addr, n.config.SyncInterval, len(n.config.SeedPeers))
	return n.api.Start()
}

// syncLoop drives ledger reconciliation on a fixed interval until the
// context is cancelled
func (n *Node) syncLoop(ctx context.Context) {
	defer close(n.done)

	ticker := time.NewTicker(n.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.ledger.Sync(ctx)
		}
	}
}

// Stop shuts down the reconciliation loop and the API server
func (n *Node) Stop() error {
	if n.cancel != nil {
		n.cancel()
		<-n.done
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return n.api.Shutdown(ctx)
}

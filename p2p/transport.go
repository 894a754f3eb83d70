// Package p2p implements the ledger's peer transport over plain HTTP.
// Every peer is another node exposing the same API surface; a peer address
// is a host:port string.
package p2p

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"goledger/blockchain"
)

const (
	// ChainFetchTimeout bounds a full-chain download so one unresponsive
	// peer cannot stall a reconciliation round
	ChainFetchTimeout = 4 * time.Second

	// RequestTimeout bounds the small exchanges (announce, peer list, push)
	RequestTimeout = 2 * time.Second
)

// HTTPTransport talks to peers over their HTTP API. It satisfies
// ledger.PeerTransport. All failures, whether connection errors, non-2xx
// statuses, or undecodable bodies, surface as a single error: the ledger
// treats them all as "this peer contributed nothing this cycle".
type HTTPTransport struct {
	client      *http.Client
	chainClient *http.Client
}

// NewHTTPTransport creates a transport with the default timeouts
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		client:      &http.Client{Timeout: RequestTimeout},
		chainClient: &http.Client{Timeout: ChainFetchTimeout},
	}
}

// Announce notifies the peer of this node's address
func (t *HTTPTransport) Announce(ctx context.Context, peer, self string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("http://%s/peers/%s", peer, self), nil)
	if err != nil {
		return fmt.Errorf("failed to build announce request: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("announce to %s failed: %w", peer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("announce to %s returned status %d", peer, resp.StatusCode)
	}
	return nil
}

// FetchPeers retrieves the peer's known peer addresses
func (t *HTTPTransport) FetchPeers(ctx context.Context, peer string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/peers", peer), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build peers request: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach %s: %w", peer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("peer list from %s returned status %d", peer, resp.StatusCode)
	}
	var peers []string
	if err := json.NewDecoder(resp.Body).Decode(&peers); err != nil {
		return nil, fmt.Errorf("invalid peer list from %s: %w", peer, err)
	}
	return peers, nil
}

// FetchChain retrieves the peer's full chain, bounded by ChainFetchTimeout
func (t *HTTPTransport) FetchChain(ctx context.Context, peer string) (*blockchain.Chain, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/chain", peer), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build chain request: %w", err)
	}
	resp, err := t.chainClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach %s: %w", peer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chain from %s returned status %d", peer, resp.StatusCode)
	}
	var chain blockchain.Chain
	if err := json.NewDecoder(resp.Body).Decode(&chain); err != nil {
		return nil, fmt.Errorf("invalid chain from %s: %w", peer, err)
	}
	return &chain, nil
}

// PushChain sends this node's full chain to the peer
func (t *HTTPTransport) PushChain(ctx context.Context, peer string, chain *blockchain.Chain) error {
	body, err := json.Marshal(map[string]*blockchain.Chain{"blockchain": chain})
	if err != nil {
		return fmt.Errorf("failed to encode chain: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, fmt.Sprintf("http://%s/chain", peer), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach %s: %w", peer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chain push to %s returned status %d", peer, resp.StatusCode)
	}
	return nil
}

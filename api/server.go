package api

import (
	"context"
	"log"
	"net/http"

	"goledger/api/handlers"
	"goledger/ledger"
)

// Server is the HTTP surface of a node. It serves both clients (wallet
// operations) and other nodes (peer and chain gossip); peers are just
// clients of the same API.
type Server struct {
	ledger *ledger.Ledger
	addr   string
	mux    *http.ServeMux
	http   *http.Server
}

// NewServer creates an API server bound to addr ("host:port" or ":port")
func NewServer(l *ledger.Ledger, addr string) *Server {
	server := &Server{
		ledger: l,
		addr:   addr,
		mux:    http.NewServeMux(),
	}
	server.setupRoutes()
	server.http = &http.Server{Addr: addr, Handler: server.mux}
	return server
}

// setupRoutes configures all HTTP endpoints
func (s *Server) setupRoutes() {
	// Liveness
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Wallet endpoints
	s.mux.HandleFunc("/wallet/create", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleCreateKeyPair(w, r)
	})
	s.mux.HandleFunc("/wallet/balance/", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleBalance(w, r, s.ledger) // handles /wallet/balance/{public_key}
	})
	s.mux.HandleFunc("/wallet/send", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleSend(w, r, s.ledger)
	})

	// Peer endpoints
	s.mux.HandleFunc("/peers", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleGetPeers(w, r, s.ledger)
	})
	s.mux.HandleFunc("/peers/", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleAddPeer(w, r, s.ledger) // handles /peers/{addr}
	})

	// Chain endpoints (GET and PATCH share the path)
	s.mux.HandleFunc("/chain", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleChain(w, r, s.ledger)
	})
}

// Handler exposes the route table, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins serving HTTP requests and blocks until shutdown
func (s *Server) Start() error {
	log.Printf("API\tlistening on %s", s.addr)
	return s.http.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

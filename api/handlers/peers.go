package handlers

import (
	"net"
	"net/http"
	"strings"

	"goledger/ledger"
)

// HandleGetPeers handles GET /peers
func HandleGetPeers(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, l.Peers())
}

// HandleAddPeer handles POST /peers/{addr}
func HandleAddPeer(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	addr := strings.TrimPrefix(r.URL.Path, "/peers/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		http.Error(w, "peer address must be host:port", http.StatusBadRequest)
		return
	}

	l.AddPeer(addr)
	w.WriteHeader(http.StatusOK)
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"goledger/blockchain"
	"goledger/ledger"
)

// ReplaceChainRequest is the body of PATCH /chain, as pushed by peers after
// they extend their own chain
type ReplaceChainRequest struct {
	Blockchain blockchain.Chain `json:"blockchain"`
}

// HandleChain handles GET /chain (serve the full chain) and PATCH /chain
// (accept a chain pushed by a peer)
func HandleChain(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, l.Chain())
	case http.MethodPatch:
		handleReplaceChain(w, r, l)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleReplaceChain(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	var req ReplaceChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := l.ReplaceChain(&req.Blockchain); err != nil {
		log.Printf("API\trejected pushed chain: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

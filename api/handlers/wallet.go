package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"goledger/blockchain"
	"goledger/ledger"
)

// SendRequest is the body of POST /wallet/send. Bodies are decoded loosely
// into a map first and then mapped onto this struct, so unknown fields are
// tolerated. Amounts are parsed from the JSON literal as integers; a
// fractional or negative amount is a decode error, and large amounts never
// pass through a float.
type SendRequest struct {
	ToPublicKey   string `mapstructure:"to_public_key"`
	FromSecretKey string `mapstructure:"from_secret_key"`
	Amount        uint64 `mapstructure:"amount"`
}

func amountHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from == reflect.TypeOf(json.Number("")) && to.Kind() == reflect.Uint64 {
		return strconv.ParseUint(data.(json.Number).String(), 10, 64)
	}
	return data, nil
}

func decodeSendRequest(raw map[string]interface{}) (SendRequest, error) {
	var req SendRequest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: amountHook,
		Result:     &req,
	})
	if err != nil {
		return req, err
	}
	return req, decoder.Decode(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// HandleCreateKeyPair handles POST /wallet/create
func HandleCreateKeyPair(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pair, err := blockchain.GenerateKeyPair()
	if err != nil {
		log.Printf("API\tfailed to generate keypair: %v", err)
		http.Error(w, "could not generate keypair", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret_key": blockchain.EncodeSecretKey(pair.Secret),
		"public_key": blockchain.EncodePublicKey(pair.Public),
	})
}

// HandleBalance handles GET /wallet/balance/{public_key}
func HandleBalance(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	encoded := strings.TrimPrefix(r.URL.Path, "/wallet/balance/")
	pub, err := blockchain.ParsePublicKey(encoded)
	if err != nil {
		http.Error(w, "could not parse public key", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"balance": l.Balance(blockchain.EncodePublicKey(pub)),
	})
}

// HandleSend handles POST /wallet/send
func HandleSend(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	req, err := decodeSendRequest(raw)
	if err != nil {
		http.Error(w, "invalid send request", http.StatusBadRequest)
		return
	}

	to, err := blockchain.ParsePublicKey(req.ToPublicKey)
	if err != nil {
		http.Error(w, "invalid public key for sending to", http.StatusBadRequest)
		return
	}
	from, err := blockchain.ParseSecretKey(req.FromSecretKey)
	if err != nil {
		http.Error(w, "invalid secret key for sending from", http.StatusBadRequest)
		return
	}

	if err := l.Send(r.Context(), to, from, req.Amount); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Printf("API\tsend failed: %v", err)
		http.Error(w, "send failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

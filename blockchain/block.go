package blockchain

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Difficulty is the number of leading "0" characters a sealed block's
	// base64 hash must carry. Fixed for the whole network, never adjusted.
	Difficulty = 2

	// GenesisPrevHash is the prev_block_hash of the first block in a chain
	GenesisPrevHash = "0"
)

// Block is a proof-of-work-sealed envelope around exactly one transaction.
// Blocks are only ever constructed through NewBlock, which mines them; a
// block in the wild is either sealed or forged.
type Block struct {
	Time          int64       `json:"time"`
	Transaction   Transaction `json:"transaction"`
	PrevBlockHash string      `json:"prev_block_hash"`
	Nonce         uint64      `json:"nonce"`
	Hash          string      `json:"hash"`
}

// NewBlock mines a sealed block for the transaction on top of prevBlockHash
func NewBlock(tx Transaction, prevBlockHash string) (Block, error) {
	if prevBlockHash == "" {
		return Block{}, fmt.Errorf("previous block hash must not be empty")
	}
	block := Block{
		Time:          time.Now().UnixMilli(),
		Transaction:   tx,
		PrevBlockHash: prevBlockHash,
	}
	block.mine(Difficulty)
	return block, nil
}

// mine finds the smallest nonce whose hash meets the difficulty. Unbounded
// in the worst case; callers must keep it off latency-sensitive paths.
func (b *Block) mine(difficulty int) {
	b.Nonce = 0
	for b.Hash = b.computeHash(); !HashMeetsDifficulty(b.Hash, difficulty); b.Hash = b.computeHash() {
		b.Nonce++
	}
}

// computeHash derives the block hash from the header fields:
// base64(SHA-256(time ++ transaction digest ++ prev hash ++ nonce))
func (b *Block) computeHash() string {
	digest := TransactionDigest(b.Transaction.From, b.Transaction.To, b.Transaction.Amount)
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(b.Time, 10)))
	h.Write(digest[:])
	h.Write([]byte(b.PrevBlockHash))
	h.Write([]byte(strconv.FormatUint(b.Nonce, 10)))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// HashMeetsDifficulty reports whether a hash carries the proof-of-work
// prefix of difficulty leading "0" characters
func HashMeetsDifficulty(hash string, difficulty int) bool {
	return strings.HasPrefix(hash, strings.Repeat("0", difficulty))
}

// Verify checks a received block: the stored hash must match the hash
// recomputed from the block's own fields, meet the difficulty, and the
// embedded transaction's signature must verify. A block failing any check
// returns (false, nil); undecodable key or signature material is an error.
func (b *Block) Verify(difficulty int) (bool, error) {
	if b.Hash != b.computeHash() {
		return false, nil
	}
	if !HashMeetsDifficulty(b.Hash, difficulty) {
		return false, nil
	}
	return b.Transaction.Verify()
}

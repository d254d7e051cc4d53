package store

import (
	"encoding/binary"

	"github.com/klingon-exchange/rollupcore/internal/smt"
)

// Transaction is a single transaction as carried inside a Block. Execution
// semantics are out of scope here; Raw is the opaque payload the VM
// backends interpret.
type Transaction struct {
	Hash smt.Hash `json:"hash"`
	Raw  []byte   `json:"raw"`
}

// Receipt is the opaque execution result paired positionally with a
// Transaction in a Block.
type Receipt struct {
	Raw []byte `json:"raw"`
}

// Block is a raw block: a number, its computed hash, and the transactions it
// carries.
type Block struct {
	Number       uint64        `json:"number"`
	Hash         smt.Hash      `json:"hash"`
	Transactions []Transaction `json:"transactions"`
}

// SMTKey returns the key this block occupies in the block-tree SMT, derived
// from its number.
func (b *Block) SMTKey() smt.Hash {
	var k smt.Hash
	binary.LittleEndian.PutUint64(k[24:32], b.Number)
	return k
}

// TransactionInfo locates a transaction within its block: the composite key
// (block hash || big-endian index) and the block number, indexed by
// transaction hash in COLUMN_TRANSACTION_INFO.
type TransactionInfo struct {
	CompositeKey []byte `json:"composite_key"`
	BlockNumber  uint64 `json:"block_number"`
}

// numberKey returns the fixed 8-byte big-endian encoding of a block number,
// used as the COLUMN_INDEX key for number -> hash lookups. Big-endian keeps
// INDEX iteration in numeric block order.
func numberKey(number uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, number)
	return b
}

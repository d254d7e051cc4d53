// Package fee implements mempool fee extraction per VM backend and the
// FeeEntry total ordering used to prioritize the mempool queue.
package fee

import (
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"

	"github.com/klingon-exchange/rollupcore/internal/smt"
)

// ItemKind discriminates the three shapes a FeeItem can take. It is not
// implemented as an interface hierarchy: FeeItem is a single closed struct
// with a Kind tag and mutually exclusive payload fields, switched on
// exhaustively wherever it matters.
type ItemKind uint8

const (
	// ItemKindTx is an ordinary transaction from an already-created account.
	ItemKindTx ItemKind = iota
	// ItemKindPendingCreateSenderTx is a transaction whose sender account has
	// not yet been created (FromID == 0); its identity hashes the signature
	// instead of the transaction body, since the canonical tx hash would
	// otherwise collide across every unregistered create by the same
	// signer-to-be.
	ItemKindPendingCreateSenderTx
	// ItemKindWithdrawal is a withdrawal request.
	ItemKindWithdrawal
)

// FeeItem is the underlying mempool item a FeeEntry wraps: either a
// transaction (ordinary or pending-create) or a withdrawal.
type FeeItem struct {
	Kind  ItemKind
	Nonce uint32

	// TxHash is set when Kind == ItemKindTx.
	TxHash smt.Hash
	// Signature is set when Kind == ItemKindPendingCreateSenderTx; Hash()
	// hashes it instead of TxHash.
	Signature []byte
	// WithdrawalHash is set when Kind == ItemKindWithdrawal.
	WithdrawalHash smt.Hash

	// Raw is the serialized item, used as the final lexicographic tiebreak
	// when two entries share a nonce.
	Raw []byte
}

// Hash returns the item's identity hash.
func (f FeeItem) Hash() smt.Hash {
	switch f.Kind {
	case ItemKindPendingCreateSenderTx:
		return blake2b.Sum256(f.Signature)
	case ItemKindWithdrawal:
		return f.WithdrawalHash
	default:
		return f.TxHash
	}
}

// SenderKind discriminates FeeItemSender's two shapes.
type SenderKind uint8

const (
	// SenderKindAccount identifies the sender by its account ID.
	SenderKindAccount SenderKind = iota
	// SenderKindPendingCreate identifies a not-yet-created sender by the
	// blake2b hash of its signature, letting the mempool sequence nonces for
	// an account before it has been minted.
	SenderKindPendingCreate
)

// FeeItemSender is the mempool's notion of "who sent this": either an
// existing account or a not-yet-created one.
type FeeItemSender struct {
	Kind              SenderKind
	AccountID         uint32
	PendingCreateHash smt.Hash
}

// SenderFromFromID builds a FeeItemSender from a transaction's raw sender
// field: FromID == 0 means the account does not exist yet, so the sender is
// tagged by the blake2b hash of its signature instead.
func SenderFromFromID(fromID uint32, signature []byte) FeeItemSender {
	if fromID == 0 {
		return FeeItemSender{Kind: SenderKindPendingCreate, PendingCreateHash: blake2b.Sum256(signature)}
	}
	return FeeItemSender{Kind: SenderKindAccount, AccountID: fromID}
}

// String renders the sender for logging and map keys.
func (s FeeItemSender) String() string {
	if s.Kind == SenderKindPendingCreate {
		return fmt.Sprintf("pending-create:%x", s.PendingCreateHash)
	}
	return fmt.Sprintf("account:%d", s.AccountID)
}

// FeeEntry is a single mempool priority entry.
type FeeEntry struct {
	Item   FeeItem
	Order  uint64
	Sender FeeItemSender

	// Fee holds a u128-range value in a 256-bit word; CyclesLimit is the
	// backend's declared cycle budget for this item. Their ratio is the
	// item's fee rate.
	Fee         *uint256.Int
	CyclesLimit uint64
}

// NewTxEntry builds a FeeEntry for an ordinary (already-created sender)
// transaction.
func NewTxEntry(txHash smt.Hash, nonce uint32, raw []byte, order uint64, sender FeeItemSender, feeAmount *uint256.Int, cyclesLimit uint64) FeeEntry {
	return FeeEntry{
		Item:        FeeItem{Kind: ItemKindTx, Nonce: nonce, TxHash: txHash, Raw: raw},
		Order:       order,
		Sender:      sender,
		Fee:         feeAmount,
		CyclesLimit: cyclesLimit,
	}
}

// NewPendingCreateEntry builds a FeeEntry for a transaction whose sender
// account does not exist yet.
func NewPendingCreateEntry(signature []byte, nonce uint32, raw []byte, order uint64, feeAmount *uint256.Int, cyclesLimit uint64) FeeEntry {
	sender := SenderFromFromID(0, signature)
	return FeeEntry{
		Item:        FeeItem{Kind: ItemKindPendingCreateSenderTx, Nonce: nonce, Signature: signature, Raw: raw},
		Order:       order,
		Sender:      sender,
		Fee:         feeAmount,
		CyclesLimit: cyclesLimit,
	}
}

// NewWithdrawalEntry builds a FeeEntry for a withdrawal request.
func NewWithdrawalEntry(withdrawalHash smt.Hash, nonce uint32, raw []byte, order uint64, sender FeeItemSender, feeAmount *uint256.Int, cyclesLimit uint64) FeeEntry {
	return FeeEntry{
		Item:        FeeItem{Kind: ItemKindWithdrawal, Nonce: nonce, WithdrawalHash: withdrawalHash, Raw: raw},
		Order:       order,
		Sender:      sender,
		Fee:         feeAmount,
		CyclesLimit: cyclesLimit,
	}
}

// Package store implements the transactional store: block insertion,
// attach/detach with SMT updates, tip tracking, and the transaction index.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/klingon-exchange/rollupcore/internal/kv"
	"github.com/klingon-exchange/rollupcore/internal/smt"
	"github.com/klingon-exchange/rollupcore/pkg/logging"
)

// Store wraps a kv.Store with the block/account-tree operations the rollup
// core needs. It is process-wide, opened once, and passed explicitly into
// every component that needs it; there is no package-level singleton.
type Store struct {
	kv  *kv.Store
	log *logging.Logger
}

// New wraps kvStore.
func New(kvStore *kv.Store) *Store {
	return &Store{kv: kvStore, log: logging.Default().Component("store")}
}

// InsertBlock makes a block known: it writes the block body, its header
// info, and every transaction/receipt pair, all within a single KV
// transaction. It does not touch indices or the SMT — the block is not yet
// canonical.
func (s *Store) InsertBlock(block *Block, headerInfo []byte, receipts []Receipt) error {
	if len(block.Transactions) != len(receipts) {
		return fmt.Errorf("%w: %d transactions, %d receipts", ErrReceiptCountMismatch, len(block.Transactions), len(receipts))
	}

	return s.kv.Update(func(tx *kv.Tx) error {
		blockBytes, err := json.Marshal(block)
		if err != nil {
			return fmt.Errorf("store: encode block: %w", err)
		}
		if err := tx.Put(kv.ColumnBlock, block.Hash[:], blockBytes); err != nil {
			return err
		}
		if err := tx.Put(kv.ColumnSyncBlockHeaderInfo, block.Hash[:], headerInfo); err != nil {
			return err
		}

		for i, txn := range block.Transactions {
			ck := smt.BuildTransactionKey(block.Hash, uint32(i))
			if err := tx.Put(kv.ColumnTransaction, ck, txn.Raw); err != nil {
				return err
			}
			receiptBytes, err := json.Marshal(receipts[i])
			if err != nil {
				return fmt.Errorf("store: encode receipt: %w", err)
			}
			if err := tx.Put(kv.ColumnTransactionReceipt, ck, receiptBytes); err != nil {
				return err
			}
		}
		return nil
	})
}

// AttachBlock makes an inserted block canonical: transaction-info entries
// are written, the number/hash indices are set, the block-tree SMT is
// updated with this block's leaf, and the tip pointer is overwritten.
func (s *Store) AttachBlock(block *Block) error {
	return s.kv.Update(func(tx *kv.Tx) error {
		for i, txn := range block.Transactions {
			ck := smt.BuildTransactionKey(block.Hash, uint32(i))
			info := TransactionInfo{CompositeKey: ck, BlockNumber: block.Number}
			infoBytes, err := json.Marshal(info)
			if err != nil {
				return fmt.Errorf("store: encode transaction info: %w", err)
			}
			if err := tx.Put(kv.ColumnTransactionInfo, txn.Hash[:], infoBytes); err != nil {
				return err
			}
		}

		numKey := numberKey(block.Number)
		if err := tx.Put(kv.ColumnIndex, numKey, block.Hash[:]); err != nil {
			return err
		}
		if err := tx.Put(kv.ColumnIndex, block.Hash[:], numKey); err != nil {
			return err
		}

		if err := s.updateBlockSMT(tx, block.SMTKey(), block.Hash); err != nil {
			return err
		}

		if err := tx.Put(kv.ColumnMeta, kv.MetaKeyTipBlockHash, block.Hash[:]); err != nil {
			return err
		}
		return nil
	})
}

// DetachBlock reverts a previously attached block: its transaction-info
// entries and indices are removed, its block-tree leaf is cleared, and the
// tip is rolled back to its parent (located via COLUMN_INDEX[number-1],
// which must already exist).
func (s *Store) DetachBlock(block *Block) error {
	return s.kv.Update(func(tx *kv.Tx) error {
		for _, txn := range block.Transactions {
			if err := tx.Delete(kv.ColumnTransactionInfo, txn.Hash[:]); err != nil {
				return err
			}
		}

		numKey := numberKey(block.Number)
		if err := tx.Delete(kv.ColumnIndex, numKey); err != nil {
			return err
		}
		if err := tx.Delete(kv.ColumnIndex, block.Hash[:]); err != nil {
			return err
		}

		if err := s.updateBlockSMT(tx, block.SMTKey(), smt.Zero); err != nil {
			return err
		}

		if block.Number == 0 {
			return fmt.Errorf("store: detach genesis block: %w", kv.ErrStoreCorruption)
		}
		parentHash, ok, err := tx.Get(kv.ColumnIndex, numberKey(block.Number-1))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: missing parent index for block %d", kv.ErrStoreCorruption, block.Number-1)
		}
		return tx.Put(kv.ColumnMeta, kv.MetaKeyTipBlockHash, parentHash)
	})
}

// updateBlockSMT reads the current block-tree root, applies a single
// key/value update, and persists the new root.
func (s *Store) updateBlockSMT(tx *kv.Tx, key, value smt.Hash) error {
	root, err := s.readRoot(tx, kv.MetaKeyBlockSMTRoot)
	if err != nil {
		return err
	}

	blockStore := smt.NewBlockStore(tx)
	newRoot, err := smt.Update(blockStore, root, key, value)
	if err != nil {
		return err
	}

	return tx.Put(kv.ColumnMeta, kv.MetaKeyBlockSMTRoot, newRoot[:])
}

func (s *Store) readRoot(tx *kv.Tx, metaKey []byte) (smt.Hash, error) {
	raw, ok, err := tx.Get(kv.ColumnMeta, metaKey)
	if err != nil {
		return smt.Hash{}, err
	}
	if !ok {
		return smt.Hash{}, fmt.Errorf("%w: missing root at %s", kv.ErrStoreCorruption, metaKey)
	}
	if len(raw) != 32 {
		return smt.Hash{}, fmt.Errorf("%w: root length %d", kv.ErrStoreCorruption, len(raw))
	}
	var h smt.Hash
	copy(h[:], raw)
	return h, nil
}

// SetTipGlobalState writes the opaque global state snapshot associated with
// the current tip.
func (s *Store) SetTipGlobalState(state []byte) error {
	return s.kv.Update(func(tx *kv.Tx) error {
		return tx.Put(kv.ColumnMeta, kv.MetaKeyTipGlobalState, state)
	})
}

// GetUpdateForTipHash reads the current tip hash through GetForUpdate against
// snap, returning ErrTxConflict if the tip has moved since snap was taken.
// Block producers call this before building on top of a particular parent,
// so a stale view is rejected instead of silently producing an orphan.
func (s *Store) GetUpdateForTipHash(snap *kv.Snapshot) (smt.Hash, error) {
	var tip smt.Hash
	err := s.kv.Update(func(tx *kv.Tx) error {
		raw, ok, err := tx.GetForUpdate(kv.ColumnMeta, kv.MetaKeyTipBlockHash, snap)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if len(raw) != 32 {
			return fmt.Errorf("%w: tip hash length %d", kv.ErrStoreCorruption, len(raw))
		}
		copy(tip[:], raw)
		return nil
	})
	return tip, err
}

// Underlying returns the wrapped kv.Store, for components (such as
// internal/state) that need direct column access alongside store-level
// operations.
func (s *Store) Underlying() *kv.Store {
	return s.kv
}

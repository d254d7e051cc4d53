package smt

import (
	"fmt"

	"github.com/klingon-exchange/rollupcore/internal/kv"
)

// Store is the persistence interface the tree engine requires: branch and
// leaf reads and writes. A Store implementation is expected to delegate
// atomicity entirely to whatever transaction it wraps.
type Store interface {
	GetBranch(key BranchKey) (BranchNode, bool, error)
	GetLeaf(key Hash) (Hash, bool, error)
	InsertBranch(key BranchKey, node BranchNode) error
	InsertLeaf(key Hash, value Hash) error
	RemoveBranch(key BranchKey) error
	RemoveLeaf(key Hash) error
}

// kvStore adapts a kv.Tx pair of columns (branch, leaf) to the Store
// interface. It is constructed fresh for each KV transaction and must not
// outlive it: Go has no borrow checker, so an adapter is never cached across
// transactions. internal/store builds one right before each block-tree
// update; state.State builds one in New and keeps it for its own transaction.
type kvStore struct {
	tx        *kv.Tx
	branchCol kv.Column
	leafCol   kv.Column
}

// NewAccountStore returns a Store over the account SMT's branch and leaf
// columns, bound to tx.
func NewAccountStore(tx *kv.Tx) Store {
	return &kvStore{tx: tx, branchCol: kv.ColumnAccountSMTBranch, leafCol: kv.ColumnAccountSMTLeaf}
}

// NewBlockStore returns a Store over the block SMT's branch and leaf
// columns, bound to tx.
func NewBlockStore(tx *kv.Tx) Store {
	return &kvStore{tx: tx, branchCol: kv.ColumnBlockSMTBranch, leafCol: kv.ColumnBlockSMTLeaf}
}

func (s *kvStore) GetBranch(key BranchKey) (BranchNode, bool, error) {
	raw, ok, err := s.tx.Get(s.branchCol, key.Encode())
	if err != nil {
		return BranchNode{}, false, fmt.Errorf("smt: get branch: %w", err)
	}
	if !ok {
		return BranchNode{}, false, nil
	}
	node, err := DecodeBranchNode(raw)
	if err != nil {
		return BranchNode{}, false, err
	}
	return node, true, nil
}

func (s *kvStore) GetLeaf(key Hash) (Hash, bool, error) {
	raw, ok, err := s.tx.Get(s.leafCol, key[:])
	if err != nil {
		return Hash{}, false, fmt.Errorf("smt: get leaf: %w", err)
	}
	if !ok {
		return Hash{}, false, nil
	}
	if len(raw) != 32 {
		return Hash{}, false, fmt.Errorf("%w: leaf length %d", ErrCorruptLeaf, len(raw))
	}
	var h Hash
	copy(h[:], raw)
	return h, true, nil
}

func (s *kvStore) InsertBranch(key BranchKey, node BranchNode) error {
	if err := s.tx.Put(s.branchCol, key.Encode(), node.Encode()); err != nil {
		return fmt.Errorf("smt: insert branch: %w", err)
	}
	return nil
}

func (s *kvStore) InsertLeaf(key Hash, value Hash) error {
	if err := s.tx.Put(s.leafCol, key[:], value[:]); err != nil {
		return fmt.Errorf("smt: insert leaf: %w", err)
	}
	return nil
}

func (s *kvStore) RemoveBranch(key BranchKey) error {
	if err := s.tx.Delete(s.branchCol, key.Encode()); err != nil {
		return fmt.Errorf("smt: delete branch: %w", err)
	}
	return nil
}

func (s *kvStore) RemoveLeaf(key Hash) error {
	if err := s.tx.Delete(s.leafCol, key[:]); err != nil {
		return fmt.Errorf("smt: delete leaf: %w", err)
	}
	return nil
}

// Package state presents the mutable account-state façade on top of the
// account Sparse Merkle Tree: raw key/value access, the account counter, and
// content-addressed script/data blob storage.
package state

import (
	"encoding/binary"
	"fmt"

	"github.com/klingon-exchange/rollupcore/internal/kv"
	"github.com/klingon-exchange/rollupcore/internal/smt"
)

// State wraps a single KV write transaction with the account SMT. The root
// it reports via CalculateRoot is only held in memory; the caller persists
// it to kv.ColumnMeta when the enclosing transaction commits.
type State struct {
	tx    *kv.Tx
	store smt.Store
	root  smt.Hash
}

// New builds a State over tx, starting from root (the account SMT root read
// out of META.ACCOUNT_SMT_ROOT by the caller).
func New(tx *kv.Tx, root smt.Hash) *State {
	return &State{tx: tx, store: smt.NewAccountStore(tx), root: root}
}

// GetRaw reads the value stored at key, or the zero hash if unset.
func (s *State) GetRaw(key smt.Hash) (smt.Hash, error) {
	v, err := smt.Get(s.store, s.root, key)
	if err != nil {
		return smt.Hash{}, fmt.Errorf("state: get raw: %w", err)
	}
	return v, nil
}

// UpdateRaw sets key to value in the account tree. The new root is not
// persisted to META.ACCOUNT_SMT_ROOT by this call; CalculateRoot reads it
// back, and the caller commits it when the enclosing transaction ends.
func (s *State) UpdateRaw(key, value smt.Hash) error {
	newRoot, err := smt.Update(s.store, s.root, key, value)
	if err != nil {
		return fmt.Errorf("state: update raw: %w", err)
	}
	s.root = newRoot
	return nil
}

// CalculateRoot returns the current in-memory account tree root.
func (s *State) CalculateRoot() smt.Hash {
	return s.root
}

// GetAccountCount returns the scalar account counter stored in
// META.ACCOUNT_SMT_COUNT.
func (s *State) GetAccountCount() (uint32, error) {
	raw, ok, err := s.tx.Get(kv.ColumnMeta, kv.MetaKeyAccountSMTCount)
	if err != nil {
		return 0, fmt.Errorf("state: get account count: %w", err)
	}
	if !ok {
		return 0, nil
	}
	if len(raw) != 4 {
		return 0, fmt.Errorf("%w: account count length %d", kv.ErrStoreCorruption, len(raw))
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// SetAccountCount writes the scalar account counter.
func (s *State) SetAccountCount(count uint32) error {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, count)
	if err := s.tx.Put(kv.ColumnMeta, kv.MetaKeyAccountSMTCount, raw); err != nil {
		return fmt.Errorf("state: set account count: %w", err)
	}
	return nil
}

// InsertScript stores script under its content hash. Scripts are immutable
// once written; re-inserting identical bytes under the same hash is a no-op
// in effect.
func (s *State) InsertScript(hash smt.Hash, script []byte) error {
	if err := s.tx.Put(kv.ColumnScript, hash[:], script); err != nil {
		return fmt.Errorf("state: insert script: %w", err)
	}
	return nil
}

// GetScript returns the script stored under hash, if any.
func (s *State) GetScript(hash smt.Hash) ([]byte, bool, error) {
	raw, ok, err := s.tx.Get(kv.ColumnScript, hash[:])
	if err != nil {
		return nil, false, fmt.Errorf("state: get script: %w", err)
	}
	return raw, ok, nil
}

// InsertData stores data under its content hash.
func (s *State) InsertData(hash smt.Hash, data []byte) error {
	if err := s.tx.Put(kv.ColumnData, hash[:], data); err != nil {
		return fmt.Errorf("state: insert data: %w", err)
	}
	return nil
}

// GetData returns the data blob stored under hash, if any.
func (s *State) GetData(hash smt.Hash) ([]byte, bool, error) {
	raw, ok, err := s.tx.Get(kv.ColumnData, hash[:])
	if err != nil {
		return nil, false, fmt.Errorf("state: get data: %w", err)
	}
	return raw, ok, nil
}

// Package kv provides a column-family transactional key-value store built on
// go.etcd.io/bbolt, the embedded store underlying the rollup core's state and
// mempool subsystems.
package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/klingon-exchange/rollupcore/pkg/helpers"
	"github.com/klingon-exchange/rollupcore/pkg/logging"
)

// Store is a process-wide handle to the embedded database. It is opened once
// and closed on shutdown; every column family is created up front so later
// transactions never need to create buckets lazily.
type Store struct {
	db  *bbolt.DB
	log *logging.Logger
}

// Open opens (creating if necessary) the bbolt file at path and ensures every
// column family exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("kv: create data directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("kv: open database: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		for _, col := range allColumns {
			if _, err := btx.CreateBucketIfNotExists([]byte(col)); err != nil {
				return fmt.Errorf("kv: create column %s: %w", col, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, log: logging.Default().Component("kv")}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Snapshot opens a point-in-time, read-only view of the store.
func (s *Store) Snapshot() (*Snapshot, error) {
	btx, err := s.db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("kv: begin snapshot: %w", err)
	}
	return &Snapshot{btx: btx}, nil
}

// BeginWrite starts a write transaction. bbolt serializes writers, so at most
// one Tx is ever in flight across the whole Store.
func (s *Store) BeginWrite() (*Tx, error) {
	btx, err := s.db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("kv: begin write transaction: %w", err)
	}
	return &Tx{btx: btx, log: s.log}, nil
}

// Update runs fn within a write transaction, committing on success and
// rolling back on error or panic.
func (s *Store) Update(fn func(tx *Tx) error) error {
	tx, err := s.BeginWrite()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// View runs fn against a read-only snapshot, closing it on return.
func (s *Store) View(fn func(snap *Snapshot) error) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	defer snap.Close()
	return fn(snap)
}

// Snapshot is a read-only, point-in-time view of the store.
type Snapshot struct {
	btx *bbolt.Tx
}

// Get reads key from column col as observed at the time the snapshot was
// taken.
func (s *Snapshot) Get(col Column, key []byte) ([]byte, bool, error) {
	b := s.btx.Bucket([]byte(col))
	if b == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	v := b.Get(key)
	if v == nil {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Iter returns a cursor-backed iterator over column col.
func (s *Snapshot) Iter(col Column, mode IterMode) (*Iterator, error) {
	b := s.btx.Bucket([]byte(col))
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	return newIterator(b.Cursor(), mode, nil), nil
}

// Close releases the underlying read transaction.
func (s *Snapshot) Close() error {
	return s.btx.Rollback()
}

// watchedKey identifies a (column, key) pair observed through GetForUpdate.
type watchedKey struct {
	col string
	key string
}

// Tx is a single write transaction spanning every column family.
type Tx struct {
	btx      *bbolt.Tx
	log      *logging.Logger
	watches  map[watchedKey][]byte
	watchOK  map[watchedKey]bool
	conflict bool
	done     bool
}

// Get performs a non-locking read of the transaction's current view of col.
func (t *Tx) Get(col Column, key []byte) ([]byte, bool, error) {
	b := t.btx.Bucket([]byte(col))
	if b == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	v := b.Get(key)
	if v == nil {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put writes key=value into column col.
func (t *Tx) Put(col Column, key, value []byte) error {
	b := t.btx.Bucket([]byte(col))
	if b == nil {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	return b.Put(key, value)
}

// Delete removes key from column col. Deleting an absent key is a no-op.
func (t *Tx) Delete(col Column, key []byte) error {
	b := t.btx.Bucket([]byte(col))
	if b == nil {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	return b.Delete(key)
}

// Iter returns a cursor-backed iterator over column col within this
// transaction's view.
func (t *Tx) Iter(col Column, mode IterMode) (*Iterator, error) {
	b := t.btx.Bucket([]byte(col))
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	return newIterator(b.Cursor(), mode, nil), nil
}

// IterFrom returns a cursor-backed iterator over column col seeked to key.
func (t *Tx) IterFrom(col Column, mode IterMode, from []byte) (*Iterator, error) {
	b := t.btx.Bucket([]byte(col))
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	return newIterator(b.Cursor(), mode, from), nil
}

// GetForUpdate reads key from column col and registers it against snap for
// conflict detection at Commit time. bbolt already serializes writers at
// BeginWrite, so the only window in which the value can have moved is
// between snap being taken and this Tx starting; GetForUpdate guards exactly
// that window, preserving the get_for_update contract callers code against
// without relying on bbolt to do anything it doesn't already do.
func (t *Tx) GetForUpdate(col Column, key []byte, snap *Snapshot) ([]byte, bool, error) {
	cur, curOK, err := t.Get(col, key)
	if err != nil {
		return nil, false, err
	}

	snapVal, snapOK, err := snap.Get(col, key)
	if err != nil {
		return nil, false, err
	}

	if snapOK != curOK || !helpers.BytesEqual(snapVal, cur) {
		t.conflict = true
	}

	if t.watches == nil {
		t.watches = make(map[watchedKey][]byte)
		t.watchOK = make(map[watchedKey]bool)
	}
	wk := watchedKey{col: string(col), key: string(key)}
	t.watches[wk] = cur
	t.watchOK[wk] = curOK

	return cur, curOK, nil
}

// Commit commits the transaction. It fails with ErrTxConflict, rolling back
// instead of committing, if any key read via GetForUpdate was found to have
// changed relative to the snapshot it was checked against.
func (t *Tx) Commit() error {
	if t.done {
		return ErrClosed
	}
	t.done = true

	if t.conflict {
		t.btx.Rollback()
		return ErrTxConflict
	}

	if err := t.btx.Commit(); err != nil {
		return fmt.Errorf("kv: commit: %w", err)
	}
	return nil
}

// Rollback discards the transaction. It is safe to call after Commit; the
// second call is a no-op.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.btx.Rollback()
}

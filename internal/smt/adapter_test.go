package smt

import (
	"path/filepath"
	"testing"

	"github.com/klingon-exchange/rollupcore/internal/kv"
)

func TestKVBackedAccountStore(t *testing.T) {
	s, err := kv.Open(filepath.Join(t.TempDir(), "rollupcore.db"))
	if err != nil {
		t.Fatalf("kv.Open() error = %v", err)
	}
	defer s.Close()

	key := hashFromByte(3)
	value := hashFromByte(99)
	var root Hash

	err = s.Update(func(tx *kv.Tx) error {
		store := NewAccountStore(tx)
		newRoot, err := Update(store, Zero, key, value)
		if err != nil {
			return err
		}
		root = newRoot
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	err = s.View(func(snap *kv.Snapshot) error {
		raw, ok, err := snap.Get(kv.ColumnAccountSMTLeaf, key[:])
		if err != nil {
			return err
		}
		if !ok {
			t.Fatal("expected leaf to be persisted")
		}
		if hashFromSlice(raw) != value {
			t.Errorf("persisted leaf = %x, want %x", raw, value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}

	err = s.Update(func(tx *kv.Tx) error {
		store := NewAccountStore(tx)
		got, err := Get(store, root, key)
		if err != nil {
			return err
		}
		if got != value {
			t.Errorf("Get() = %x, want %x", got, value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}

func hashFromSlice(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

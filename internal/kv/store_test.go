package kv

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rollupcore.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := openTestStore(t)

	err := s.Update(func(tx *Tx) error {
		return tx.Put(ColumnMeta, []byte("k1"), []byte("v1"))
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	err = s.View(func(snap *Snapshot) error {
		v, ok, err := snap.Get(ColumnMeta, []byte("k1"))
		if err != nil {
			return err
		}
		if !ok || string(v) != "v1" {
			t.Errorf("Get() = (%q, %v), want (v1, true)", v, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}

	err = s.Update(func(tx *Tx) error {
		return tx.Delete(ColumnMeta, []byte("k1"))
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	err = s.View(func(snap *Snapshot) error {
		_, ok, err := snap.Get(ColumnMeta, []byte("k1"))
		if err != nil {
			return err
		}
		if ok {
			t.Error("Get() after Delete() should report absent")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestUnknownColumn(t *testing.T) {
	s := openTestStore(t)

	err := s.Update(func(tx *Tx) error {
		return tx.Put(Column("NOT_A_COLUMN"), []byte("k"), []byte("v"))
	})
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Put() on unknown column error = %v, want ErrUnknownColumn", err)
	}
}

func TestGetForUpdateDetectsConflict(t *testing.T) {
	s := openTestStore(t)

	if err := s.Update(func(tx *Tx) error {
		return tx.Put(ColumnMeta, MetaKeyTipBlockHash, []byte("block-a"))
	}); err != nil {
		t.Fatalf("seed Update() error = %v", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	defer snap.Close()

	// A write lands between the snapshot being taken and the GetForUpdate
	// caller's own write transaction.
	if err := s.Update(func(tx *Tx) error {
		return tx.Put(ColumnMeta, MetaKeyTipBlockHash, []byte("block-b"))
	}); err != nil {
		t.Fatalf("racing Update() error = %v", err)
	}

	// The read itself succeeds; the conflict is only reported by Commit.
	probe, err := s.BeginWrite()
	if err != nil {
		t.Fatalf("BeginWrite() error = %v", err)
	}
	_, _, err = probe.GetForUpdate(ColumnMeta, MetaKeyTipBlockHash, snap)
	probe.Rollback()
	if err != nil {
		t.Fatalf("GetForUpdate() itself should not error, got %v", err)
	}

	err = s.Update(func(tx *Tx) error {
		if _, _, err := tx.GetForUpdate(ColumnMeta, MetaKeyTipBlockHash, snap); err != nil {
			return err
		}
		return tx.Put(ColumnMeta, MetaKeyTipBlockHash, []byte("block-c"))
	})
	if !errors.Is(err, ErrTxConflict) {
		t.Errorf("Commit() after stale GetForUpdate error = %v, want ErrTxConflict", err)
	}

	// The conflicting commit must not have applied.
	if err := s.View(func(snap *Snapshot) error {
		v, _, err := snap.Get(ColumnMeta, MetaKeyTipBlockHash)
		if err != nil {
			return err
		}
		if string(v) != "block-b" {
			t.Errorf("tip = %q, want block-b (conflicting write must be rolled back)", v)
		}
		return nil
	}); err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestIterForwardAndReverse(t *testing.T) {
	s := openTestStore(t)

	keys := []string{"a", "b", "c"}
	if err := s.Update(func(tx *Tx) error {
		for _, k := range keys {
			if err := tx.Put(ColumnMeta, []byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	err := s.View(func(snap *Snapshot) error {
		it, err := snap.Iter(ColumnMeta, IterForward)
		if err != nil {
			return err
		}
		var got []string
		for it.Next() {
			got = append(got, string(it.Key()))
		}
		if len(got) != len(keys) {
			t.Fatalf("forward iter len = %d, want %d", len(got), len(keys))
		}
		for i, k := range keys {
			if got[i] != k {
				t.Errorf("forward iter[%d] = %s, want %s", i, got[i], k)
			}
		}

		rit, err := snap.Iter(ColumnMeta, IterReverse)
		if err != nil {
			return err
		}
		var rgot []string
		for rit.Next() {
			rgot = append(rgot, string(rit.Key()))
		}
		for i, k := range []string{"c", "b", "a"} {
			if rgot[i] != k {
				t.Errorf("reverse iter[%d] = %s, want %s", i, rgot[i], k)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

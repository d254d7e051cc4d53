package state

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/klingon-exchange/rollupcore/internal/kv"
	"github.com/klingon-exchange/rollupcore/internal/smt"
)

func openTestStore(t *testing.T) *kv.Store {
	t.Helper()
	s, err := kv.Open(filepath.Join(t.TempDir(), "rollupcore.db"))
	if err != nil {
		t.Fatalf("kv.Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpdateRawAndCalculateRoot(t *testing.T) {
	store := openTestStore(t)

	key := common.HexToHash("0x01")
	value := common.HexToHash("0x2a")

	var root smt.Hash
	err := store.Update(func(tx *kv.Tx) error {
		st := New(tx, smt.Zero)
		if err := st.UpdateRaw(key, value); err != nil {
			return err
		}
		root = st.CalculateRoot()
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if root == smt.Zero {
		t.Fatal("CalculateRoot() should not be zero after a nonzero update")
	}

	err = store.Update(func(tx *kv.Tx) error {
		st := New(tx, root)
		got, err := st.GetRaw(key)
		if err != nil {
			return err
		}
		if got != value {
			t.Errorf("GetRaw() = %x, want %x", got, value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}

func TestAccountCountRoundTrip(t *testing.T) {
	store := openTestStore(t)

	err := store.Update(func(tx *kv.Tx) error {
		st := New(tx, smt.Zero)
		count, err := st.GetAccountCount()
		if err != nil {
			return err
		}
		if count != 0 {
			t.Errorf("initial count = %d, want 0", count)
		}
		return st.SetAccountCount(7)
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	err = store.Update(func(tx *kv.Tx) error {
		st := New(tx, smt.Zero)
		count, err := st.GetAccountCount()
		if err != nil {
			return err
		}
		if count != 7 {
			t.Errorf("count = %d, want 7", count)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}

func TestScriptAndDataStorage(t *testing.T) {
	store := openTestStore(t)

	scriptHash := common.HexToHash("0xaa")
	script := []byte("script-bytes")
	dataHash := common.HexToHash("0xbb")
	data := []byte("blob-bytes")

	err := store.Update(func(tx *kv.Tx) error {
		st := New(tx, smt.Zero)
		if err := st.InsertScript(scriptHash, script); err != nil {
			return err
		}
		return st.InsertData(dataHash, data)
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	err = store.View(func(snap *kv.Snapshot) error {
		got, ok, err := snap.Get(kv.ColumnScript, scriptHash[:])
		if err != nil {
			return err
		}
		if !ok || string(got) != string(script) {
			t.Errorf("script = %q, ok=%v, want %q", got, ok, script)
		}

		got, ok, err = snap.Get(kv.ColumnData, dataHash[:])
		if err != nil {
			return err
		}
		if !ok || string(got) != string(data) {
			t.Errorf("data = %q, ok=%v, want %q", got, ok, data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

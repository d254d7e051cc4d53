package store

import (
	"encoding/binary"
	"fmt"

	"github.com/klingon-exchange/rollupcore/internal/kv"
	"github.com/klingon-exchange/rollupcore/internal/smt"
)

// InitGenesis seeds a freshly opened, empty store with the all-zero SMT
// roots, a zero account count, and genesisTipHash as the tip, indexed as
// block number 0 in both directions so that detaching block 1 finds its
// parent. The original
// store this is modeled on was always opened against a database that had
// already been through genesis import, which is what let it assume
// META.BLOCK_SMT_ROOT / META.ACCOUNT_SMT_ROOT were always present; this
// makes that assumption an explicit, callable step instead of a standing
// invariant enforced only by deployment convention.
//
// Calling InitGenesis against a store that already has a tip fails with
// ErrAlreadySeeded.
func (s *Store) InitGenesis(genesisTipHash smt.Hash, genesisGlobalState []byte) error {
	return s.kv.Update(func(tx *kv.Tx) error {
		if _, ok, err := tx.Get(kv.ColumnMeta, kv.MetaKeyTipBlockHash); err != nil {
			return err
		} else if ok {
			return ErrAlreadySeeded
		}

		if err := tx.Put(kv.ColumnMeta, kv.MetaKeyBlockSMTRoot, smt.Zero[:]); err != nil {
			return fmt.Errorf("store: seed block smt root: %w", err)
		}
		if err := tx.Put(kv.ColumnMeta, kv.MetaKeyAccountSMTRoot, smt.Zero[:]); err != nil {
			return fmt.Errorf("store: seed account smt root: %w", err)
		}

		count := make([]byte, 4)
		binary.LittleEndian.PutUint32(count, 0)
		if err := tx.Put(kv.ColumnMeta, kv.MetaKeyAccountSMTCount, count); err != nil {
			return fmt.Errorf("store: seed account count: %w", err)
		}

		if err := tx.Put(kv.ColumnMeta, kv.MetaKeyTipBlockHash, genesisTipHash[:]); err != nil {
			return fmt.Errorf("store: seed tip hash: %w", err)
		}
		genesisNumKey := numberKey(0)
		if err := tx.Put(kv.ColumnIndex, genesisNumKey, genesisTipHash[:]); err != nil {
			return fmt.Errorf("store: seed genesis index: %w", err)
		}
		if err := tx.Put(kv.ColumnIndex, genesisTipHash[:], genesisNumKey); err != nil {
			return fmt.Errorf("store: seed genesis index: %w", err)
		}
		if err := tx.Put(kv.ColumnMeta, kv.MetaKeyTipGlobalState, genesisGlobalState); err != nil {
			return fmt.Errorf("store: seed tip global state: %w", err)
		}

		return nil
	})
}

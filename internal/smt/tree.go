package smt

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// maxHeight is the topmost branch level; the tree has 256 levels, addressed
// by height 0 (immediately above the leaves) through maxHeight (the root).
// This is a deliberate simplification of the path-compressed tree the
// original store used: every level is materialized rather than collapsing
// runs of single-child branches, trading some storage density for a much
// simpler Go implementation.
const maxHeight = 255

// Get reads the value stored at key. It returns Zero if root is Zero (an
// empty tree) or the key has no leaf. For any other root it reads the key's
// leaf directly without walking branches, so the result is the latest value
// written for key through store, whichever nonzero root is passed.
func Get(store Store, root Hash, key Hash) (Hash, error) {
	if root == Zero {
		return Zero, nil
	}
	value, ok, err := store.GetLeaf(key)
	if err != nil {
		return Zero, fmt.Errorf("%w: %v", ErrSmt, err)
	}
	if !ok {
		return Zero, nil
	}
	return value, nil
}

// Update sets key to value in the tree rooted at root and returns the new
// root. Setting value to Zero removes the key.
//
// The tree is rebuilt along the single root-to-leaf path touched by key:
// each branch along that path is refetched from the store (so sibling
// subtrees inserted by earlier, unrelated updates are preserved), its
// key-side child replaced, and re-hashed. Because the result depends only on
// the final (key, value) pairs present in the store and not on the order
// updates were applied, the resulting root is independent of update order.
func Update(store Store, root Hash, key Hash, value Hash) (Hash, error) {
	if value == Zero {
		if err := store.RemoveLeaf(key); err != nil {
			return Zero, fmt.Errorf("%w: %v", ErrSmt, err)
		}
	} else {
		if err := store.InsertLeaf(key, value); err != nil {
			return Zero, fmt.Errorf("%w: %v", ErrSmt, err)
		}
	}

	current := value
	for height := 0; height <= maxHeight; height++ {
		nodeKey := clearLowBits(key, height+1)
		bkey := BranchKey{Height: uint8(height), NodeKey: nodeKey}

		existing, ok, err := store.GetBranch(bkey)
		if err != nil {
			return Zero, fmt.Errorf("%w: %v", ErrSmt, err)
		}

		left, right := existing.Left, existing.Right
		if !ok {
			left, right = Zero, Zero
		}

		if getBit(key, height) == 0 {
			left = current
		} else {
			right = current
		}

		if left == Zero && right == Zero {
			if err := store.RemoveBranch(bkey); err != nil {
				return Zero, fmt.Errorf("%w: %v", ErrSmt, err)
			}
			current = Zero
			continue
		}

		if err := store.InsertBranch(bkey, BranchNode{Left: left, Right: right}); err != nil {
			return Zero, fmt.Errorf("%w: %v", ErrSmt, err)
		}
		current = mergeHash(left, right)
	}

	return current, nil
}

// mergeHash combines a branch's two children into the branch's own hash.
func mergeHash(left, right Hash) Hash {
	h := blake2b.Sum256(append(append([]byte{}, left[:]...), right[:]...))
	return Hash(h)
}

// getBit returns the bit of key at position height, counting from the
// least-significant bit (height 0) up to the most-significant (height 255).
func getBit(key Hash, height int) uint8 {
	byteIndex := 31 - height/8
	bitOffset := uint(height % 8)
	return (key[byteIndex] >> bitOffset) & 1
}

// clearLowBits returns key with its lowest n bits (counting from the
// least-significant bit) cleared. At n == maxHeight+1 this returns Zero,
// which is the node_key shared by every key at the root branch.
func clearLowBits(key Hash, n int) Hash {
	if n <= 0 {
		return key
	}
	if n >= 256 {
		return Hash{}
	}

	out := key
	fullBytes := n / 8
	for i := 0; i < fullBytes; i++ {
		out[31-i] = 0
	}
	remaining := n % 8
	if remaining > 0 {
		mask := byte(0xFF << uint(remaining))
		out[31-fullBytes] &= mask
	}
	return out
}

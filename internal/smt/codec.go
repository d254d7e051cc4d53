package smt

import (
	"encoding/binary"
	"fmt"
)

// BranchKey addresses a single branch node: its height in the tree (255 at
// the root, 0 immediately above the leaves) and the node_key, the key prefix
// shared by every leaf beneath this branch with the bits at and below height
// cleared.
type BranchKey struct {
	Height  uint8
	NodeKey Hash
}

// branchKeySize is the fixed on-disk size of an encoded BranchKey: one height
// byte followed by the 32-byte node key.
const branchKeySize = 1 + 32

// Encode serializes k to its fixed 33-byte form.
func (k BranchKey) Encode() []byte {
	out := make([]byte, branchKeySize)
	out[0] = k.Height
	copy(out[1:], k.NodeKey[:])
	return out
}

// DecodeBranchKey parses the fixed 33-byte branch key encoding.
func DecodeBranchKey(b []byte) (BranchKey, error) {
	if len(b) != branchKeySize {
		return BranchKey{}, fmt.Errorf("%w: branch key length %d, want %d", ErrCorruptBranch, len(b), branchKeySize)
	}
	var k BranchKey
	k.Height = b[0]
	copy(k.NodeKey[:], b[1:])
	return k, nil
}

// BranchNode is a tree branch: the hashes (or Zero) of its left and right
// children.
type BranchNode struct {
	Left  Hash
	Right Hash
}

// branchNodeSize is the fixed on-disk size of an encoded BranchNode.
const branchNodeSize = 32 + 32

// Encode serializes n to its fixed 64-byte form.
func (n BranchNode) Encode() []byte {
	out := make([]byte, branchNodeSize)
	copy(out[0:32], n.Left[:])
	copy(out[32:64], n.Right[:])
	return out
}

// DecodeBranchNode parses the fixed 64-byte branch node encoding.
func DecodeBranchNode(b []byte) (BranchNode, error) {
	if len(b) != branchNodeSize {
		return BranchNode{}, fmt.Errorf("%w: branch node length %d, want %d", ErrCorruptBranch, len(b), branchNodeSize)
	}
	var n BranchNode
	copy(n.Left[:], b[0:32])
	copy(n.Right[:], b[32:64])
	return n, nil
}

// compositeKeySize is the fixed size of a transaction composite key: a block
// hash followed by a big-endian u32 index.
const compositeKeySize = 32 + 4

// BuildTransactionKey packs a block hash and an in-block transaction index
// into the composite key used as the primary key in the TRANSACTION and
// TRANSACTION_RECEIPT columns.
func BuildTransactionKey(blockHash Hash, index uint32) []byte {
	out := make([]byte, compositeKeySize)
	copy(out[0:32], blockHash[:])
	binary.BigEndian.PutUint32(out[32:36], index)
	return out
}

// DecomposeTransactionKey reverses BuildTransactionKey.
func DecomposeTransactionKey(key []byte) (Hash, uint32, error) {
	if len(key) != compositeKeySize {
		return Hash{}, 0, fmt.Errorf("%w: length %d, want %d", ErrInvalidCompositeKey, len(key), compositeKeySize)
	}
	var h Hash
	copy(h[:], key[0:32])
	index := binary.BigEndian.Uint32(key[32:36])
	return h, index, nil
}

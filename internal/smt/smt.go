// Package smt implements a Sparse Merkle Tree engine and the store adapters
// that map its branch and leaf reads/writes onto KV columns.
package smt

import "github.com/ethereum/go-ethereum/common"

// Hash is the 32-byte node identifier used throughout the tree: branch
// hashes, leaf values, and keys are all Hash-shaped. Reusing go-ethereum's
// common.Hash avoids rolling a parallel fixed-size byte type.
type Hash = common.Hash

// Zero is the empty-leaf / empty-subtree hash.
var Zero = Hash{}

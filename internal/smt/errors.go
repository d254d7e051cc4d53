package smt

import "errors"

var (
	// ErrCorruptBranch reports a branch node whose stored length is not the
	// fixed 64-byte encoding, or a branch key that is not the fixed 33-byte
	// encoding.
	ErrCorruptBranch = errors.New("smt: corrupt branch node")

	// ErrCorruptLeaf reports a leaf column entry whose stored length is not
	// exactly 32 bytes.
	ErrCorruptLeaf = errors.New("smt: corrupt leaf value")

	// ErrSmt wraps failures from the tree engine that are not otherwise
	// classified as store corruption; fatal for the enclosing transaction.
	ErrSmt = errors.New("smt: tree operation failed")

	// ErrInvalidCompositeKey reports a transaction composite key that is not
	// exactly 36 bytes (a 32-byte block hash plus a 4-byte big-endian index).
	ErrInvalidCompositeKey = errors.New("smt: invalid composite transaction key")
)

package kv

import "errors"

var (
	// ErrStoreCorruption reports that an invariant-bearing key is missing or
	// malformed. It is fatal for the current operation and must be surfaced,
	// never swallowed.
	ErrStoreCorruption = errors.New("kv: store corruption")

	// ErrTxConflict reports that Commit failed because a key read via
	// GetForUpdate changed after it was observed.
	ErrTxConflict = errors.New("kv: transaction conflict")

	// ErrUnknownColumn reports use of a column family that was not created
	// when the store was opened.
	ErrUnknownColumn = errors.New("kv: unknown column")

	// ErrClosed reports an operation against a store or transaction that has
	// already been closed.
	ErrClosed = errors.New("kv: store closed")
)

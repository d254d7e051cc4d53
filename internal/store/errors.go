package store

import "errors"

var (
	// ErrReceiptCountMismatch reports that InsertBlock was called with a
	// different number of receipts than transactions.
	ErrReceiptCountMismatch = errors.New("store: transaction count does not match receipt count")

	// ErrAlreadySeeded reports that InitGenesis was called against a store
	// that already has a tip.
	ErrAlreadySeeded = errors.New("store: genesis already seeded")
)

package mempool

import (
	"errors"
	"fmt"

	"github.com/klingon-exchange/rollupcore/internal/mempool/fee"
)

// ErrDuplicateNonce reports that Insert collided on an existing (sender,
// nonce) pair. Match it with errors.Is; use errors.As with
// *DuplicateNonceError to inspect which entry was displaced.
var ErrDuplicateNonce = errors.New("mempool: duplicate nonce")

// DuplicateNonceError carries the entry that was dropped by a duplicate
// nonce collision: the incoming entry itself when it lost the
// replace-by-fee comparison, or the previously queued entry when it won and
// displaced it.
type DuplicateNonceError struct {
	Displaced fee.FeeEntry
}

func (e *DuplicateNonceError) Error() string {
	return fmt.Sprintf("mempool: duplicate nonce %d, displaced entry dropped", e.Displaced.Item.Nonce)
}

func (e *DuplicateNonceError) Unwrap() error {
	return ErrDuplicateNonce
}

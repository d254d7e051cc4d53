// Package mempool implements the fee-prioritized mempool queue: per-sender
// nonce-ordered chains feeding a global priority heap over eligible heads.
package mempool

import (
	"container/heap"
	"sync"

	"github.com/klingon-exchange/rollupcore/internal/mempool/fee"
	"github.com/klingon-exchange/rollupcore/internal/smt"
	"github.com/klingon-exchange/rollupcore/pkg/logging"
)

// Queue is a shared, in-memory priority structure over pending FeeEntry
// items. It is guarded by a mutex; holders must not hold it across any
// blocking I/O such as a MemPoolProvider call.
type Queue struct {
	mu        sync.Mutex
	heap      *senderHeap
	nextOrder uint64
	log       *logging.Logger
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{heap: newSenderHeap(), log: logging.Default().Component("mempool")}
}

// Len reports the number of entries currently queued across every sender,
// including non-head entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, c := range q.heap.chains {
		n += len(c.nonces)
	}
	return n
}

// Insert adds e at (sender, nonce). Order is assigned by the queue at
// insertion time, overwriting whatever was set on e.
//
// A duplicate (sender, nonce) is rejected unless e has strictly higher
// priority than the entry already queued there, in which case it replaces
// it. Either way the losing entry is dropped and returned via
// *DuplicateNonceError: the displaced former entry on a successful
// replacement, or e itself when e lost the comparison.
func (q *Queue) Insert(sender fee.FeeItemSender, nonce uint32, e fee.FeeEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := sender.String()
	idx, exists := q.heap.index[key]
	var c *chain
	if exists {
		c = q.heap.chains[idx]
	} else {
		c = newChain(sender)
	}

	existing, hadNonce := c.entries[nonce]
	if hadNonce && !fee.HigherFeeRate(e, existing) {
		return &DuplicateNonceError{Displaced: e}
	}

	e.Order = q.nextOrder
	q.nextOrder++
	e.Sender = sender
	c.insert(nonce, e)

	if exists {
		heap.Fix(q.heap, idx)
	} else {
		heap.Push(q.heap, c)
	}

	if hadNonce {
		return &DuplicateNonceError{Displaced: existing}
	}
	return nil
}

// Pop removes and returns the highest-priority eligible entry, promoting
// that sender's next nonce (if any) to eligible.
func (q *Queue) Pop() (fee.FeeEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.heap.Len() == 0 {
		return fee.FeeEntry{}, false
	}

	top := q.heap.chains[0]
	e, _ := top.popHead()

	if top.empty() {
		heap.Pop(q.heap)
	} else {
		heap.Fix(q.heap, 0)
	}

	return e, true
}

// PromoteAccount transitions a pending-create sender (identified by the
// blake2b hash of its not-yet-registered signature) to its newly assigned
// account ID, merging its pending chain into the account's chain while
// preserving nonce order.
func (q *Queue) PromoteAccount(pendingCreateHash smt.Hash, accountID uint32) {
	q.mu.Lock()
	defer q.mu.Unlock()

	oldSender := fee.FeeItemSender{Kind: fee.SenderKindPendingCreate, PendingCreateHash: pendingCreateHash}
	oldKey := oldSender.String()

	idx, exists := q.heap.index[oldKey]
	if !exists {
		return
	}
	old := q.heap.chains[idx]
	heap.Remove(q.heap, idx)

	newSender := fee.FeeItemSender{Kind: fee.SenderKindAccount, AccountID: accountID}
	newKey := newSender.String()

	if newIdx, ok := q.heap.index[newKey]; ok {
		q.heap.chains[newIdx].merge(old)
		heap.Fix(q.heap, newIdx)
		return
	}

	merged := newChain(newSender)
	merged.merge(old)
	heap.Push(q.heap, merged)
}

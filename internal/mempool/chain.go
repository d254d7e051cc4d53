package mempool

import (
	"sort"

	"github.com/klingon-exchange/rollupcore/internal/mempool/fee"
)

// chain is a single sender's nonce-ordered queue of pending entries. Only
// its head (the lowest pending nonce) is eligible for selection; nonces need
// not be contiguous.
type chain struct {
	sender  fee.FeeItemSender
	entries map[uint32]fee.FeeEntry
	nonces  []uint32 // kept sorted ascending
}

func newChain(sender fee.FeeItemSender) *chain {
	return &chain{sender: sender, entries: make(map[uint32]fee.FeeEntry)}
}

// head returns the chain's lowest pending entry.
func (c *chain) head() (fee.FeeEntry, bool) {
	if len(c.nonces) == 0 {
		return fee.FeeEntry{}, false
	}
	return c.entries[c.nonces[0]], true
}

// insert adds or overwrites the entry at nonce, keeping nonces sorted.
func (c *chain) insert(nonce uint32, e fee.FeeEntry) {
	if _, exists := c.entries[nonce]; !exists {
		idx := sort.Search(len(c.nonces), func(i int) bool { return c.nonces[i] >= nonce })
		c.nonces = append(c.nonces, 0)
		copy(c.nonces[idx+1:], c.nonces[idx:])
		c.nonces[idx] = nonce
	}
	c.entries[nonce] = e
}

// popHead removes and returns the chain's lowest pending entry.
func (c *chain) popHead() (fee.FeeEntry, bool) {
	if len(c.nonces) == 0 {
		return fee.FeeEntry{}, false
	}
	nonce := c.nonces[0]
	e := c.entries[nonce]
	delete(c.entries, nonce)
	c.nonces = c.nonces[1:]
	return e, true
}

func (c *chain) empty() bool {
	return len(c.nonces) == 0
}

// merge folds other's entries into c, preserving nonce order and re-tagging
// each moved entry with c's sender. Used to splice a pending-create chain
// into its account's chain once the account has been minted.
func (c *chain) merge(other *chain) {
	for _, nonce := range other.nonces {
		e := other.entries[nonce]
		e.Sender = c.sender
		c.insert(nonce, e)
	}
}

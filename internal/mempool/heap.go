package mempool

import "github.com/klingon-exchange/rollupcore/internal/mempool/fee"

// senderHeap is a container/heap.Interface over each sender's current head
// entry. It implements a max-heap by inverting fee.Less: the chain whose
// head is most attractive to mine sorts first.
type senderHeap struct {
	chains []*chain
	index  map[string]int
}

func newSenderHeap() *senderHeap {
	return &senderHeap{index: make(map[string]int)}
}

func (h *senderHeap) Len() int { return len(h.chains) }

func (h *senderHeap) Less(i, j int) bool {
	ei, _ := h.chains[i].head()
	ej, _ := h.chains[j].head()
	return fee.More(ei, ej)
}

func (h *senderHeap) Swap(i, j int) {
	h.chains[i], h.chains[j] = h.chains[j], h.chains[i]
	h.index[h.chains[i].sender.String()] = i
	h.index[h.chains[j].sender.String()] = j
}

func (h *senderHeap) Push(x any) {
	c := x.(*chain)
	h.index[c.sender.String()] = len(h.chains)
	h.chains = append(h.chains, c)
}

func (h *senderHeap) Pop() any {
	old := h.chains
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	h.chains = old[:n-1]
	delete(h.index, c.sender.String())
	return c
}

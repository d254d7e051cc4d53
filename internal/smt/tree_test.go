package smt

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// memStore is an in-memory Store used to exercise the tree engine without a
// kv.Store behind it.
type memStore struct {
	branches map[BranchKey]BranchNode
	leaves   map[Hash]Hash
}

func newMemStore() *memStore {
	return &memStore{branches: make(map[BranchKey]BranchNode), leaves: make(map[Hash]Hash)}
}

func (m *memStore) GetBranch(key BranchKey) (BranchNode, bool, error) {
	n, ok := m.branches[key]
	return n, ok, nil
}
func (m *memStore) GetLeaf(key Hash) (Hash, bool, error) {
	v, ok := m.leaves[key]
	return v, ok, nil
}
func (m *memStore) InsertBranch(key BranchKey, node BranchNode) error {
	m.branches[key] = node
	return nil
}
func (m *memStore) InsertLeaf(key Hash, value Hash) error {
	m.leaves[key] = value
	return nil
}
func (m *memStore) RemoveBranch(key BranchKey) error {
	delete(m.branches, key)
	return nil
}
func (m *memStore) RemoveLeaf(key Hash) error {
	delete(m.leaves, key)
	return nil
}

func hashFromByte(b byte) Hash {
	var h Hash
	h[31] = b
	return h
}

func TestUpdateGetRoundTrip(t *testing.T) {
	s := newMemStore()
	root := Zero

	key := hashFromByte(1)
	value := hashFromByte(42)

	newRoot, err := Update(s, root, key, value)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if newRoot == Zero {
		t.Fatal("Update() of a nonzero value should not yield a zero root")
	}

	got, err := Get(s, newRoot, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != value {
		t.Errorf("Get() = %x, want %x", got, value)
	}
}

func TestUpdateRemoveRestoresEmptyRoot(t *testing.T) {
	s := newMemStore()
	key := hashFromByte(7)
	value := hashFromByte(9)

	root, err := Update(s, Zero, key, value)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	root, err = Update(s, root, key, Zero)
	if err != nil {
		t.Fatalf("Update(remove) error = %v", err)
	}
	if root != Zero {
		t.Errorf("root after removing the only key = %x, want Zero", root)
	}
	if len(s.branches) != 0 {
		t.Errorf("expected no residual branches, got %d", len(s.branches))
	}
}

func TestRootIndependentOfUpdateOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	type kv struct {
		key   Hash
		value Hash
	}
	var entries []kv
	for i := 0; i < 24; i++ {
		var k, v Hash
		rng.Read(k[:])
		rng.Read(v[:])
		if v == Zero {
			v[0] = 1
		}
		entries = append(entries, kv{k, v})
	}

	applyInOrder := func(order []int) Hash {
		s := newMemStore()
		root := Zero
		var err error
		for _, idx := range order {
			root, err = Update(s, root, entries[idx].key, entries[idx].value)
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
		}
		return root
	}

	order1 := make([]int, len(entries))
	for i := range order1 {
		order1[i] = i
	}
	order2 := append([]int(nil), order1...)
	rng.Shuffle(len(order2), func(i, j int) { order2[i], order2[j] = order2[j], order2[i] })

	root1 := applyInOrder(order1)
	root2 := applyInOrder(order2)

	if root1 != root2 {
		t.Errorf("root depends on update order: %x != %x", root1, root2)
	}
}

func TestBranchKeyRoundTrip(t *testing.T) {
	k := BranchKey{Height: 200, NodeKey: hashFromByte(5)}
	decoded, err := DecodeBranchKey(k.Encode())
	if err != nil {
		t.Fatalf("DecodeBranchKey() error = %v", err)
	}
	if decoded != k {
		t.Errorf("DecodeBranchKey() = %+v, want %+v", decoded, k)
	}
}

func TestBranchNodeRoundTrip(t *testing.T) {
	n := BranchNode{Left: hashFromByte(1), Right: hashFromByte(2)}
	decoded, err := DecodeBranchNode(n.Encode())
	if err != nil {
		t.Fatalf("DecodeBranchNode() error = %v", err)
	}
	if decoded != n {
		t.Errorf("DecodeBranchNode() = %+v, want %+v", decoded, n)
	}
}

func TestCompositeKeyRoundTrip(t *testing.T) {
	h := common.HexToHash("0xdeadbeef")
	for _, idx := range []uint32{0, 1, 255, 1 << 20} {
		key := BuildTransactionKey(h, idx)
		gotHash, gotIdx, err := DecomposeTransactionKey(key)
		if err != nil {
			t.Fatalf("DecomposeTransactionKey() error = %v", err)
		}
		if gotHash != h || gotIdx != idx {
			t.Errorf("round trip = (%x, %d), want (%x, %d)", gotHash, gotIdx, h, idx)
		}
	}
}

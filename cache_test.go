// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package ndlife

import (
	"math/big"
	"testing"
)

func TestCacheLeafLayers(t *testing.T) {
	t.Parallel()

	want := map[int]int{1: 6, 2: 3, 3: 2, 4: 2, 5: 2, 6: 1}
	for ndim, layer := range want {
		if got := leafLayerForDims(ndim); got != layer {
			t.Fatalf("leaf layer for %dD = %d, want %d", ndim, got, layer)
		}
	}
}

func TestCacheInternLeafDedup(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	cells := make([]CellState, 64)
	cells[5] = 1
	a := c.InternLeaf(cells)
	b := c.InternLeaf(cells)
	if a != b {
		t.Fatal("identical leaves interned to different nodes")
	}
	// Mutating the caller's slice must not reach into the node.
	cells[5] = 2
	if a.Cell(BigVecFromInts(5, 0)) != 1 {
		t.Fatal("interned leaf shares the caller's cell slice")
	}
	cells[5] = 1
	if c.InternLeaf(cells) != a {
		t.Fatal("re-interned leaf is a different node")
	}
}

func TestCacheInternNodeDedup(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	cells := make([]CellState, 64)
	cells[0] = 1
	leaf := c.InternLeaf(cells)
	empty := c.Empty(c.LeafLayer())

	a := c.InternNode([]*Node{leaf, empty, empty, empty})
	b := c.InternNode([]*Node{leaf, empty, empty, empty})
	if a != b {
		t.Fatal("identical nodes interned to different nodes")
	}
	if a.Layer() != c.LeafLayer()+1 {
		t.Fatalf("node layer = %d, want %d", a.Layer(), c.LeafLayer()+1)
	}
	if a.Population().Cmp(bigOne) != 0 {
		t.Fatalf("node population = %s, want 1", a.Population())
	}
}

func TestCacheEmptyUniquePerLayer(t *testing.T) {
	t.Parallel()

	c := NewCache(3)
	for layer := c.LeafLayer(); layer < c.LeafLayer()+5; layer++ {
		a := c.Empty(layer)
		b := c.Empty(layer)
		if a != b {
			t.Fatalf("two empty nodes at layer %d", layer)
		}
		if !a.IsEmpty() {
			t.Fatalf("empty node at layer %d has population %s", layer, a.Population())
		}
		if a.Layer() != layer {
			t.Fatalf("empty node layer = %d, want %d", a.Layer(), layer)
		}
		if state, ok := a.SingleState(); !ok || state != 0 {
			t.Fatalf("empty node single state = (%d, %t), want (0, true)", state, ok)
		}
	}
}

// Interning a node whose children are all empty collapses to the
// canonical empty node one layer up.
func TestCacheEmptyCollapse(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	empty := c.Empty(4)
	n := c.InternNode([]*Node{empty, empty, empty, empty})
	if n != c.Empty(5) {
		t.Fatal("all-empty node did not collapse to the canonical empty")
	}
}

// Content hashes are stable across cache instances (and therefore
// across runs), unlike node identities.
func TestCacheHashStable(t *testing.T) {
	t.Parallel()

	build := func(c *Cache) *Node {
		tree := NewTree(c)
		tree.SetCell(BigVecFromInts(1, 2), 1)
		tree.SetCell(BigVecFromInts(-3, 0), 2)
		return tree.Root()
	}
	a := build(NewCache(2))
	b := build(NewCache(2))
	if a == b {
		t.Fatal("nodes from distinct caches share identity")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("same content, different hashes: %x != %x", a.Hash(), b.Hash())
	}
}

func TestCacheResultMemo(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	tree := NewTree(c)
	tree.SetCell(BigVecFromInts(0, 0), 1)
	tree.Expand()
	root := tree.Root()

	tag := RuleTag("test-rule")
	gens := big.NewInt(4)
	if _, ok := c.Result(root, gens, tag); ok {
		t.Fatal("result present before being set")
	}
	inner := root.CenteredInner(c)
	c.SetResult(root, gens, tag, inner)
	got, ok := c.Result(root, gens, tag)
	if !ok || got != inner {
		t.Fatal("memoized result not returned")
	}
	// Other keys stay independent.
	if _, ok := c.Result(root, big.NewInt(5), tag); ok {
		t.Fatal("result leaked across generation counts")
	}
	if _, ok := c.Result(root, gens, RuleTag("other-rule")); ok {
		t.Fatal("result leaked across rules")
	}
}

func TestCacheCollect(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	tree := NewTree(c)
	for i := int64(0); i < 8; i++ {
		tree.SetCell(BigVecFromInts(i, i), 1)
	}
	// Orphan most of that by clearing the cells again; the old path
	// copies stay interned until a sweep.
	for i := int64(0); i < 8; i++ {
		tree.SetCell(BigVecFromInts(i, i), 0)
	}

	before := c.NodeCount()
	c.Collect(tree.Root())
	after := c.NodeCount()
	if after >= before {
		t.Fatalf("collect kept all %d nodes", before)
	}
	// The tree is intact and usable after the sweep.
	if tree.Population().Sign() != 0 {
		t.Fatalf("population %s, want 0", tree.Population())
	}
	tree.SetCell(BigVecFromInts(3, 3), 1)
	if tree.GetCell(BigVecFromInts(3, 3)) != 1 {
		t.Fatal("tree unusable after collect")
	}
	if c.Stats().Collections != 1 {
		t.Fatalf("collections = %d, want 1", c.Stats().Collections)
	}
}

func TestCacheStatsCounters(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	cells := make([]CellState, 64)
	cells[1] = 1
	c.InternLeaf(cells)
	c.InternLeaf(cells)

	stats := c.Stats()
	if stats.Interns == 0 {
		t.Fatal("interns counter never moved")
	}
	if stats.InternHits == 0 {
		t.Fatal("intern hits counter never moved")
	}
	if stats.Nodes != c.NodeCount() {
		t.Fatalf("stats nodes %d != node count %d", stats.Nodes, c.NodeCount())
	}
}

func TestCacheNodeAttributes(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	tree := NewTree(c)
	tree.SetCell(BigVecFromInts(0, 0), 1)
	root := tree.Root()

	if root.NumChildren() != 4 {
		t.Fatalf("root children = %d, want 4", root.NumChildren())
	}
	want := new(big.Int).Lsh(bigOne, uint(root.Layer()*2))
	if root.BigNumCells().Cmp(want) != 0 {
		t.Fatalf("num cells = %s, want %s", root.BigNumCells(), want)
	}
	if _, ok := root.SingleState(); ok {
		t.Fatal("mixed node reports a single state")
	}
	for i := 0; i < root.NumChildren(); i++ {
		if root.Child(i).Layer() != root.Layer()-1 {
			t.Fatalf("child %d at layer %d", i, root.Child(i).Layer())
		}
	}
}

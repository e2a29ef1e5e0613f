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
)

// Tree is a movable, resizable view of an infinite grid backed by a
// node cache. It pairs a root node with the global coordinates of the
// root's lower corner, plus a generation counter maintained by the
// step driver. Every mutation builds the replacement root first and
// swaps it in whole, so a tree is never observed half-updated.
//
// A Tree is not safe for concurrent mutation; the cache behind it is.
type Tree struct {
	cache  *Cache
	root   *Node
	offset BigVec
	gen    *big.Int
}

// NewTree creates an empty tree centered on the origin, rooted one
// layer above the cache's leaf layer.
func NewTree(cache *Cache) *Tree {
	root := cache.Empty(cache.LeafLayer() + 1)
	offset := RepeatBigVec(cache.NumDims(), new(big.Int).Neg(bigPow2(cache.LeafLayer())))
	return &Tree{
		cache:  cache,
		root:   root,
		offset: offset,
		gen:    new(big.Int),
	}
}

// Cache returns the node cache backing this tree.
func (t *Tree) Cache() *Cache { return t.cache }

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// NumDims returns the dimensionality of the tree.
func (t *Tree) NumDims() int { return t.cache.NumDims() }

// Offset returns the global coordinates of the root's lower corner.
func (t *Tree) Offset() BigVec { return t.offset.Copy() }

// Rect returns the rectangle of the grid the root currently covers.
func (t *Tree) Rect() BigRect { return t.root.Rect(t.offset) }

// Population returns the number of nonzero cells in the tree.
func (t *Tree) Population() *big.Int { return t.root.Population() }

// Generation returns how many generations the tree has been advanced.
func (t *Tree) Generation() *big.Int { return new(big.Int).Set(t.gen) }

// GetCell returns the state of the cell at the given global position,
// or 0 for any position outside the rooted region.
func (t *Tree) GetCell(pos BigVec) CellState {
	if !t.Rect().Contains(pos) {
		return 0
	}
	return t.root.Cell(pos.Sub(t.offset))
}

// SetCell sets the state of the cell at the given global position,
// expanding the tree as needed to contain it. The root is rebuilt by
// path-copying from the root to the affected leaf; interning makes
// redundant updates cheap.
func (t *Tree) SetCell(pos BigVec, state CellState) {
	t.ExpandTo(pos)
	t.root = t.setCellRec(t.root, pos.Sub(t.offset), state)
}

func (t *Tree) setCellRec(n *Node, local BigVec, state CellState) *Node {
	if n.IsLeaf() {
		cells := make([]CellState, len(n.cells))
		copy(cells, n.cells)
		cells[n.leafIndex(local)] = state
		return t.cache.InternLeaf(cells)
	}
	half := bigPow2(n.layer - 1)
	idx := 0
	for k := range local {
		if local[k].Cmp(half) >= 0 {
			idx |= 1 << k
			local[k].Sub(local[k], half)
		}
	}
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	children[idx] = t.setCellRec(children[idx], local, state)
	return t.cache.InternNode(children)
}

// Expand zooms out by a factor of two. Each child of the root becomes
// the diagonally opposite child of a fresh wrapper node, so the
// payload keeps its center and the tree gains 25% empty padding on
// each side along every axis.
func (t *Tree) Expand() {
	root := t.root
	if root.IsLeaf() {
		// A leaf root has no children to rewrap. Tree roots never sit
		// below one layer above the leaf layer, so this is a bug.
		panic(ErrInvariantViolation)
	}
	mask := 1<<uint(root.ndim) - 1
	empty := t.cache.Empty(root.layer - 1)
	children := make([]*Node, len(root.children))
	for i, child := range root.children {
		inner := make([]*Node, len(root.children))
		for j := range inner {
			inner[j] = empty
		}
		inner[i^mask] = child
		children[i] = t.cache.InternNode(inner)
	}
	t.root = t.cache.InternNode(children)
	t.offset = t.offset.SubScalar(bigPow2(root.layer - 1))
}

// ExpandTo expands until the given position lies inside the rooted
// region, returning how many times the tree grew.
func (t *Tree) ExpandTo(pos BigVec) int {
	for i := 0; ; i++ {
		if t.Rect().Contains(pos) {
			return i
		}
		t.Expand()
	}
}

// Shrink zooms in as far as possible without losing nonzero cells:
// while the centered inner node has the same population as the root,
// it becomes the new root. Returns how many layers were shed.
func (t *Tree) Shrink() int {
	shrunk := 0
	for t.root.layer > t.cache.LeafLayer()+1 {
		inner := t.root.CenteredInner(t.cache)
		if inner.pop.Cmp(t.root.pop) != 0 {
			break
		}
		t.setRootCentered(inner)
		shrunk++
	}
	return shrunk
}

// Recenter offsets the whole grid so that the given position becomes
// the new origin.
func (t *Tree) Recenter(pos BigVec) {
	t.offset = t.offset.Sub(pos)
}

// setRootCentered swaps in a replacement root, adjusting the offset so
// the geometric center is preserved.
func (t *Tree) setRootCentered(root *Node) {
	oldHalf := bigPow2(t.root.layer - 1)
	newHalf := bigPow2(root.layer - 1)
	shift := new(big.Int).Sub(oldHalf, newHalf)
	t.offset = t.offset.AddScalar(shift)
	t.root = root
}

// SliceContaining returns a read-only view of the smallest interned
// subtree wholly containing rect. The rectangle must intersect the
// rooted region.
func (t *Tree) SliceContaining(rect BigRect) TreeSlice {
	node := t.root
	offset := t.offset.Copy()
	for !node.IsLeaf() {
		half := bigPow2(node.layer - 1)
		center := offset.AddScalar(half)
		idx := 0
		ok := true
		for k := range center {
			minUpper := rect.min[k].Cmp(center[k]) >= 0
			maxUpper := rect.max[k].Cmp(center[k]) >= 0
			if minUpper != maxUpper {
				ok = false
				break
			}
			if minUpper {
				idx |= 1 << k
			}
		}
		if !ok {
			break
		}
		for k := range offset {
			if idx>>k&1 == 1 {
				offset[k].Add(offset[k], half)
			}
		}
		node = node.children[idx]
	}
	return TreeSlice{Root: node, Offset: offset}
}

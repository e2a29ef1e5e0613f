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
	"fmt"
	"math/big"
)

// CellState is the state of a single cell. State 0 is the default
// (empty) state.
type CellState = uint8

// Node is one hypercube of the grid, at a power-of-two scale given by
// its layer. A node at the leaf layer owns a flat array of cells in
// scan order (lowest axis varies fastest); any larger node owns 2^D
// children one layer down, indexed by the bitmask of which axis halves
// the child occupies.
//
// Nodes are immutable and interned: within one Cache, two nodes with
// identical content are the same pointer, so pointer equality is
// content equality. Never construct a Node directly; go through the
// cache so that interning and the derived attributes (population,
// uniform state, hash) stay consistent.
type Node struct {
	layer    int
	ndim     int
	id       uint64
	hash     uint64
	pop      *big.Int
	single   int16 // uniform cell state beneath, or -1 when mixed
	cells    []CellState
	children []*Node
}

// Layer returns the node's scale: the node spans 2^Layer cells along
// every axis.
func (n *Node) Layer() int { return n.layer }

// NumDims returns the dimensionality of the node.
func (n *Node) NumDims() int { return n.ndim }

// IsLeaf reports whether the node stores cells directly.
func (n *Node) IsLeaf() bool { return n.children == nil }

// IsEmpty reports whether every cell beneath the node is 0. Because of
// interning there is exactly one empty node per layer, so this is
// equivalent to identity with Cache.Empty(n.Layer()).
func (n *Node) IsEmpty() bool { return n.pop.Sign() == 0 }

// Population returns the number of nonzero cells beneath the node.
func (n *Node) Population() *big.Int { return new(big.Int).Set(n.pop) }

// SingleState returns the uniform state of every cell beneath the
// node, if there is one.
func (n *Node) SingleState() (CellState, bool) {
	if n.single < 0 {
		return 0, false
	}
	return CellState(n.single), true
}

// Hash returns the node's content hash. It is stable across runs:
// identical content always hashes identically.
func (n *Node) Hash() uint64 { return n.hash }

// NumChildren returns 2^D for a non-leaf node and 0 for a leaf.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th child of a non-leaf node. Bit k of i selects
// the upper half along axis k.
func (n *Node) Child(i int) *Node {
	if n.IsLeaf() {
		panic(fmt.Errorf("%w: Child called on leaf node", ErrInvariantViolation))
	}
	return n.children[i]
}

// BigLen returns the node's side length, 2^layer.
func (n *Node) BigLen() *big.Int { return bigPow2(n.layer) }

// BigNumCells returns the total cell count, 2^(layer*D).
func (n *Node) BigNumCells() *big.Int { return bigPow2(n.layer * n.ndim) }

// Rect returns the rectangle the node spans when its lower corner sits
// at offset.
func (n *Node) Rect(offset BigVec) BigRect {
	return rectSpanning(offset, n.layer)
}

// Cell returns the state of the cell at the given position, local to
// the node's lower corner. The position must be inside the node.
func (n *Node) Cell(local BigVec) CellState {
	pos := local.Copy()
	for !n.IsLeaf() {
		half := bigPow2(n.layer - 1)
		idx := 0
		for k := range pos {
			if pos[k].Cmp(half) >= 0 {
				idx |= 1 << k
				pos[k].Sub(pos[k], half)
			}
		}
		n = n.children[idx]
	}
	return n.cells[n.leafIndex(pos)]
}

// leafIndex converts an in-leaf position to a cell array index.
func (n *Node) leafIndex(local BigVec) int {
	idx := 0
	for k := len(local) - 1; k >= 0; k-- {
		idx = idx<<uint(n.layer) | int(local[k].Int64())
	}
	return idx
}

// grandchild returns the child of the i-th child, addressed by a point
// of the 4^D grid of layer-2 descendants.
func (n *Node) grandchild(p []int) *Node {
	ci, gi := 0, 0
	for k, v := range p {
		ci |= (v >> 1) << k
		gi |= (v & 1) << k
	}
	return n.children[ci].children[gi]
}

// fillGrid writes the node's cells into a flat side^D scratch grid at
// the given origin. Only used at small layers where the whole node
// fits in memory.
func (n *Node) fillGrid(grid []CellState, gridSide int, origin []int) {
	if n.IsLeaf() {
		side := 1 << n.layer
		p := make([]int, n.ndim)
		dst := make([]int, n.ndim)
		for i := 0; ; i++ {
			for k := range p {
				dst[k] = origin[k] + p[k]
			}
			grid[flatIndex(dst, gridSide)] = n.cells[i]
			k := 0
			for ; k < n.ndim; k++ {
				p[k]++
				if p[k] < side {
					break
				}
				p[k] = 0
			}
			if k == n.ndim {
				return
			}
		}
	}
	half := 1 << (n.layer - 1)
	sub := make([]int, n.ndim)
	for i, child := range n.children {
		for k := range sub {
			sub[k] = origin[k] + ((i>>k)&1)*half
		}
		child.fillGrid(grid, gridSide, sub)
	}
}

// CenteredInner returns the node one layer down occupying the
// geometric center of n: the union of the inner 2^D grandchildren.
// Just above the leaf layer, where there are no grandchild nodes to
// join, the inner cells are gathered into a fresh leaf instead.
func (n *Node) CenteredInner(c *Cache) *Node {
	if n.layer <= c.leafLayer {
		panic(fmt.Errorf("%w: centered inner of a node at layer %d", ErrInvariantViolation, n.layer))
	}
	if n.layer == c.leafLayer+1 {
		side := 1 << uint(n.layer)
		grid := make([]CellState, intPow(side, n.ndim))
		n.fillGrid(grid, side, make([]int, n.ndim))
		origin := make([]int, n.ndim)
		for k := range origin {
			origin[k] = side / 4
		}
		return c.NodeFromGrid(c.leafLayer, grid, side, origin)
	}
	mask := 1<<uint(n.ndim) - 1
	children := make([]*Node, 1<<uint(n.ndim))
	for i := range children {
		children[i] = n.children[i].children[i^mask]
	}
	return c.InternNode(children)
}

func (n *Node) String() string {
	kind := "node"
	if n.IsLeaf() {
		kind = "leaf"
	}
	return fmt.Sprintf("%dD %s(layer=%d, pop=%s)", n.ndim, kind, n.layer, n.pop)
}

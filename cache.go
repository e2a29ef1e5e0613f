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
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"
)

// leafLayerForDims returns the layer at which nodes store cells
// directly: the smallest layer whose nodes hold at least 64 cells.
func leafLayerForDims(ndim int) int {
	checkDims(ndim)
	l := 1
	for l*ndim < 6 {
		l++
	}
	return l
}

// CacheStats is a snapshot of the cache's instrumentation counters.
type CacheStats struct {
	Nodes        uint64 // nodes currently interned
	Interns      uint64 // intern requests that created a new node
	InternHits   uint64 // intern requests answered from the table
	ResultHits   uint64 // memoized step results served
	ResultMisses uint64 // step results that had to be computed
	Collections  uint64 // garbage collection sweeps run
}

// Cache interns nodes by content and memoizes auxiliary facts about
// them: the unique empty node per layer and the evolved "result" node
// per (node, step, rule). One cache serves one simulation (or several
// trees that want to share structure); it is never global. All methods
// are safe for concurrent use, and interning is linearizable: two
// concurrent interns of the same content observe the same node.
type Cache struct {
	mu        sync.Mutex
	ndim      int
	leafLayer int
	nextID    uint64
	hardLimit uint64

	nodes   map[string]*Node
	empties map[int]*Node
	results map[resultKey]*Node
	stats   CacheStats
}

type resultKey struct {
	node    *Node
	gens    uint64 // generation count when it fits a word
	gensBig string // hex text of the count otherwise
	rule    RuleTag
}

// NewCache creates an empty cache for ndim-dimensional nodes.
func NewCache(ndim int) *Cache {
	checkDims(ndim)
	return &Cache{
		ndim:      ndim,
		leafLayer: leafLayerForDims(ndim),
		nodes:     make(map[string]*Node),
		empties:   make(map[int]*Node),
		results:   make(map[resultKey]*Node),
	}
}

// NumDims returns the dimensionality of the cache's nodes.
func (c *Cache) NumDims() int { return c.ndim }

// LeafLayer returns the layer at which this cache's nodes store cells
// directly.
func (c *Cache) LeafLayer() int { return c.leafLayer }

// SetHardLimit caps the number of interned nodes; once exceeded, the
// running step fails with ErrCacheExhausted instead of thrashing.
// Zero (the default) means no cap.
func (c *Cache) SetHardLimit(n uint64) {
	c.mu.Lock()
	c.hardLimit = n
	c.mu.Unlock()
}

// NodeCount returns the number of nodes currently interned.
func (c *Cache) NodeCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint64(len(c.nodes))
}

// Stats returns a snapshot of the instrumentation counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Nodes = uint64(len(c.nodes))
	return s
}

func (c *Cache) exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hardLimit > 0 && uint64(len(c.nodes)) > c.hardLimit
}

// InternLeaf returns the unique leaf node with the given cells. The
// slice must hold exactly 2^(leafLayer*D) cells in scan order; it is
// copied if a new node has to be created.
func (c *Cache) InternLeaf(cells []CellState) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internLeafLocked(cells)
}

func (c *Cache) internLeafLocked(cells []CellState) *Node {
	if len(cells) != 1<<uint(c.leafLayer*c.ndim) {
		panic(fmt.Errorf("%w: leaf with %d cells, want %d", ErrInvariantViolation, len(cells), 1<<uint(c.leafLayer*c.ndim)))
	}
	key := leafKey(cells)
	if n, ok := c.nodes[key]; ok {
		c.stats.InternHits++
		return n
	}
	owned := make([]CellState, len(cells))
	copy(owned, cells)
	pop := 0
	single := int16(owned[0])
	for _, cell := range owned {
		if cell != 0 {
			pop++
		}
		if int16(cell) != single {
			single = -1
		}
	}
	n := &Node{
		layer:  c.leafLayer,
		ndim:   c.ndim,
		id:     c.nextID,
		hash:   leafHash(owned),
		pop:    big.NewInt(int64(pop)),
		single: single,
		cells:  owned,
	}
	c.nextID++
	c.nodes[key] = n
	c.stats.Interns++
	return n
}

// InternNode returns the unique non-leaf node with the given children.
// All children must be interned in this cache and share a layer. If
// every child is the empty node at its layer, the canonical empty node
// one layer up is returned instead, so the empty representation stays
// collapsed.
func (c *Cache) InternNode(children []*Node) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internNodeLocked(children)
}

func (c *Cache) internNodeLocked(children []*Node) *Node {
	if len(children) != 1<<uint(c.ndim) {
		panic(fmt.Errorf("%w: node with %d children, want %d", ErrInvariantViolation, len(children), 1<<uint(c.ndim)))
	}
	layer := children[0].layer
	allEmpty := true
	for _, child := range children {
		if child.layer != layer {
			panic(fmt.Errorf("%w: child layer mismatch (%d vs %d)", ErrInvariantViolation, child.layer, layer))
		}
		if !child.IsEmpty() {
			allEmpty = false
		}
	}
	if allEmpty {
		return c.emptyLocked(layer + 1)
	}
	return c.rawNodeLocked(children)
}

// rawNodeLocked interns a non-leaf node without the empty collapse;
// Empty relies on it to build the canonical empty chain itself.
func (c *Cache) rawNodeLocked(children []*Node) *Node {
	key := nodeKey(children)
	if n, ok := c.nodes[key]; ok {
		c.stats.InternHits++
		return n
	}
	owned := make([]*Node, len(children))
	copy(owned, children)
	pop := new(big.Int)
	single := owned[0].single
	for _, child := range owned {
		pop.Add(pop, child.pop)
		if child.single != single {
			single = -1
		}
	}
	n := &Node{
		layer:    owned[0].layer + 1,
		ndim:     c.ndim,
		id:       c.nextID,
		hash:     nodeHash(owned),
		pop:      pop,
		single:   single,
		children: owned,
	}
	c.nextID++
	c.nodes[key] = n
	c.stats.Interns++
	return n
}

// Join is InternNode under the name the stepper uses.
func (c *Cache) Join(children []*Node) *Node {
	return c.InternNode(children)
}

// Empty returns the unique all-zero node at the given layer,
// constructing the chain of empties below it on demand.
func (c *Cache) Empty(layer int) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emptyLocked(layer)
}

func (c *Cache) emptyLocked(layer int) *Node {
	if layer < c.leafLayer {
		panic(fmt.Errorf("%w: empty node below leaf layer %d", ErrInvariantViolation, c.leafLayer))
	}
	if n, ok := c.empties[layer]; ok {
		return n
	}
	var n *Node
	if layer == c.leafLayer {
		n = c.internLeafLocked(make([]CellState, 1<<uint(c.leafLayer*c.ndim)))
	} else {
		children := make([]*Node, 1<<uint(c.ndim))
		child := c.emptyLocked(layer - 1)
		for i := range children {
			children[i] = child
		}
		n = c.rawNodeLocked(children)
	}
	c.empties[layer] = n
	return n
}

// Result returns the memoized evolved inner node for (n, gens, rule),
// if one has been recorded.
func (c *Cache) Result(n *Node, gens *big.Int, rule RuleTag) (*Node, bool) {
	key := makeResultKey(n, gens, rule)
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[key]
	if ok {
		c.stats.ResultHits++
	} else {
		c.stats.ResultMisses++
	}
	return r, ok
}

// SetResult memoizes the evolved inner node for (n, gens, rule). The
// result must live one layer below n. Memoization is idempotent: a
// concurrent writer of the same key must be writing an equal node, so
// either write may win.
func (c *Cache) SetResult(n *Node, gens *big.Int, rule RuleTag, result *Node) {
	if result.layer != n.layer-1 {
		panic(fmt.Errorf("%w: result at layer %d for node at layer %d", ErrInvariantViolation, result.layer, n.layer))
	}
	key := makeResultKey(n, gens, rule)
	c.mu.Lock()
	c.results[key] = result
	c.mu.Unlock()
}

func makeResultKey(n *Node, gens *big.Int, rule RuleTag) resultKey {
	key := resultKey{node: n, rule: rule}
	if gens.IsUint64() {
		key.gens = gens.Uint64()
	} else {
		key.gensBig = gens.Text(16)
	}
	return key
}

// Collect sweeps the cache, dropping every node not reachable from the
// given roots, the empty-node table, or a retained node's result
// edges. Safe to skip entirely; callers usually run it between steps.
func (c *Cache) Collect(roots ...*Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	marked := make(map[*Node]struct{})
	var mark func(n *Node)
	mark = func(n *Node) {
		if _, ok := marked[n]; ok {
			return
		}
		marked[n] = struct{}{}
		for _, child := range n.children {
			mark(child)
		}
	}
	for _, root := range roots {
		if root != nil {
			mark(root)
		}
	}
	for _, n := range c.empties {
		mark(n)
	}
	// Result edges of retained nodes keep their targets alive; chase
	// them until no new node gets marked.
	for {
		grew := false
		for key, result := range c.results {
			if _, ok := marked[key.node]; !ok {
				continue
			}
			if _, ok := marked[result]; !ok {
				mark(result)
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	nodes := make(map[string]*Node, len(marked))
	for key, n := range c.nodes {
		if _, ok := marked[n]; ok {
			nodes[key] = n
		}
	}
	results := make(map[resultKey]*Node, len(c.results))
	for key, result := range c.results {
		_, keepNode := marked[key.node]
		_, keepResult := marked[result]
		if keepNode && keepResult {
			results[key] = result
		}
	}
	c.nodes = nodes
	c.results = results
	c.stats.Collections++
}

// NodeFromGrid builds the node at the given layer whose cells are read
// from a flat scratch grid (side gridSide along every axis, scan
// order) starting at origin. Only used at small layers.
func (c *Cache) NodeFromGrid(layer int, grid []CellState, gridSide int, origin []int) *Node {
	if layer == c.leafLayer {
		side := 1 << uint(layer)
		cells := make([]CellState, intPow(side, c.ndim))
		src := make([]int, c.ndim)
		forEachCubePos(c.ndim, side, func(p []int) {
			for k := range src {
				src[k] = origin[k] + p[k]
			}
			cells[flatIndex(p, side)] = grid[flatIndex(src, gridSide)]
		})
		return c.InternLeaf(cells)
	}
	half := 1 << uint(layer-1)
	children := make([]*Node, 1<<uint(c.ndim))
	sub := make([]int, c.ndim)
	for i := range children {
		for k := range sub {
			sub[k] = origin[k] + ((i>>k)&1)*half
		}
		children[i] = c.NodeFromGrid(layer-1, grid, gridSide, sub)
	}
	return c.InternNode(children)
}

// leafKey fingerprints a leaf by its cell contents.
func leafKey(cells []CellState) string {
	buf := make([]byte, 1+len(cells))
	buf[0] = 'l'
	copy(buf[1:], cells)
	return string(buf)
}

// nodeKey fingerprints a non-leaf by its child identities. Child
// pointers are unique per content, so identity comparison is enough;
// no deep equality is ever needed.
func nodeKey(children []*Node) string {
	buf := make([]byte, 1+8*len(children))
	buf[0] = 'n'
	for i, child := range children {
		binary.LittleEndian.PutUint64(buf[1+8*i:], child.id)
	}
	return string(buf)
}

// FNV-1a, with the same constants the standard library uses. Content
// hashes must be identical across runs for reproducible tests, which
// rules out keying on node ids.
const (
	hashOffset = 14695981039346656037
	hashPrime  = 1099511628211
)

func leafHash(cells []CellState) uint64 {
	h := uint64(hashOffset)
	h = (h ^ 'l') * hashPrime
	for _, cell := range cells {
		h = (h ^ uint64(cell)) * hashPrime
	}
	return h
}

func nodeHash(children []*Node) uint64 {
	h := uint64(hashOffset)
	h = (h ^ 'n') * hashPrime
	for _, child := range children {
		for shift := 0; shift < 64; shift += 8 {
			h = (h ^ (child.hash >> uint(shift) & 0xff)) * hashPrime
		}
	}
	return h
}

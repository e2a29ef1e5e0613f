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
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"sync/atomic"
)

// Simulation advances trees under one rule, memoizing evolution
// results in the tree's node cache.
type Simulation struct {
	rule        Rule
	trans       TransitionFunction
	tag         RuleTag
	leafLayer   int
	minLayer    int
	emptyStable bool
	interrupt   atomic.Bool
}

// NewSimulation binds a simulation to a rule. The minimum layer at
// which one generation can be advanced follows from the rule's radius:
// the smallest layer L with 2^L/4 >= r, and at least one layer above
// the leaf layer so that results exist at a valid layer.
func NewSimulation(rule Rule) *Simulation {
	leafLayer := leafLayerForDims(rule.NumDims())
	minLayer := leafLayer + 1
	if minLayer < 2 {
		minLayer = 2
	}
	for 1<<uint(minLayer)/4 < rule.Radius() {
		minLayer++
	}
	s := &Simulation{
		rule:      rule,
		trans:     rule.TransitionFunction(),
		tag:       rule.Tag(),
		leafLayer: leafLayer,
		minLayer:  minLayer,
	}
	s.emptyStable = s.zeroNeighborhoodStable()
	return s
}

// Rule returns the rule the simulation advances under.
func (s *Simulation) Rule() Rule { return s.rule }

// Interrupt requests that a running Step abort. The step returns
// ErrInterrupted with its tree unchanged; the flag clears once the
// abort is observed.
func (s *Simulation) Interrupt() {
	s.interrupt.Store(true)
}

// zeroNeighborhoodStable evaluates the transition function once on an
// all-zero neighborhood. If the rule spontaneously fires on empty
// space ("B0" behavior), the empty-node shortcut in the recursion is
// unsound and must stay disabled.
func (s *Simulation) zeroNeighborhoodStable() bool {
	radius := s.rule.Radius()
	if radius < 1 {
		radius = 1
	}
	ndim := s.rule.NumDims()
	side := 2*radius + 1
	center := make([]int, ndim)
	for k := range center {
		center[k] = radius
	}
	nb := &Neighborhood{
		grid:   make([]CellState, intPow(side, ndim)),
		side:   side,
		ndim:   ndim,
		center: center,
		radius: radius,
	}
	return s.trans(nb) == 0
}

// Step advances the tree by exactly stepSize generations. A zero step
// is a no-op; a negative (or nil) step is ErrInvalidStepSize. On any
// error the tree is left exactly as it was: the whole step runs on a
// scratch handle and the root is only swapped in at the end.
func (s *Simulation) Step(tree *Tree, stepSize *big.Int) (err error) {
	if stepSize == nil || stepSize.Sign() < 0 {
		return ErrInvalidStepSize
	}
	if stepSize.Sign() == 0 {
		return nil
	}
	if tree.NumDims() != s.rule.NumDims() {
		return fmt.Errorf("%w: %dD rule applied to %dD tree", ErrInvariantViolation, s.rule.NumDims(), tree.NumDims())
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvariantViolation, r)
		}
		if errors.Is(err, ErrInterrupted) {
			s.interrupt.Store(false)
		}
	}()

	cache := tree.cache
	scratch := &Tree{cache: cache, root: tree.root, offset: tree.offset.Copy(), gen: new(big.Int)}

	// Expand out to the sphere of influence of the existing pattern:
	// expansion_distance >= r' * t', with the radius rounded up to a
	// power of two and t' = 2^bitlen(t), the power of two above t.
	radius := s.rule.Radius()
	radiusLog2 := 0
	if radius > 1 {
		radiusLog2 = bits.Len(uint(radius - 1))
	}
	minExpansion := new(big.Int).Lsh(bigOne, uint(radiusLog2)+uint(stepSize.BitLen()))
	expansion := new(big.Int)
	for expansion.Cmp(minExpansion) < 0 {
		scratch.Expand()
		expansion.Add(expansion, bigPow2(scratch.root.layer-2))
	}
	// One more expansion guarantees the sphere of influence sits
	// strictly inside the inner half, because the result always comes
	// back one layer below its input.
	scratch.Expand()
	// Grow far enough that halving the generation count layer by layer
	// bottoms out at <= 1 by the time the recursion reaches minLayer.
	for scratch.root.layer < s.minLayer+stepSize.BitLen() {
		scratch.Expand()
	}

	oldQuarter := bigPow2(scratch.root.layer - 2)
	root, err := s.advanceInner(cache, scratch.root, stepSize)
	if err != nil {
		return err
	}
	scratch.root = root
	scratch.offset = scratch.offset.AddScalar(oldQuarter)
	scratch.Shrink()

	tree.root = scratch.root
	tree.offset = scratch.offset
	tree.gen.Add(tree.gen, stepSize)
	return nil
}

// advanceInner computes the centered inner node of n advanced by gens
// generations: a node one layer down, gens generations into the
// future. Pure up to cache memoization.
//
// Correctness rests on Gosper's observation: a node of length len can
// always predict its inner node after t generations when
// len/4 >= r*t, because r bounds the speed of information and len/4
// is the distance from the inner node's edge to the outer node's
// edge. Each recursive call sees a half-diameter inner region of its
// input, so the bound is maintained all the way down.
func (s *Simulation) advanceInner(c *Cache, n *Node, gens *big.Int) (*Node, error) {
	if s.interrupt.Load() {
		return nil, ErrInterrupted
	}
	if c.exhausted() {
		return nil, ErrCacheExhausted
	}
	if n.layer < s.minLayer {
		panic(fmt.Errorf("%w: advancing node at layer %d below minimum %d", ErrInvariantViolation, n.layer, s.minLayer))
	}
	if r, ok := c.Result(n, gens, s.tag); ok {
		return r, nil
	}

	var result *Node
	switch {
	case gens.Sign() == 0:
		// Not simulating anything: the inner node as it is now.
		result = n.CenteredInner(c)

	case n.IsEmpty() && s.emptyStable:
		// An empty node stays empty. Unsound for B0 rules, hence the
		// emptyStable guard.
		result = c.Empty(n.layer - 1)

	case n.layer == s.minLayer:
		// Minimum layer: process each cell individually. The driver
		// expanded far enough that at most one generation remains.
		if !gens.IsUint64() || gens.Uint64() > 1 {
			panic(fmt.Errorf("%w: %s generations left at minimum layer", ErrInvariantViolation, gens))
		}
		result = s.advanceDirect(c, n, gens.Uint64())

	case n.layer-2 <= s.leafLayer:
		// The grandchildren are leaves: small enough to array out the
		// cells and run the remaining generations directly.
		if !gens.IsUint64() {
			panic(fmt.Errorf("%w: %s generations at leaf-adjacent layer", ErrInvariantViolation, gens))
		}
		result = s.advanceDirect(c, n, gens.Uint64())

	default:
		// The HashLife step. Split the time in two (the halves differ
		// by at most one on odd counts; which half is larger is
		// arbitrary, but it must be consistent for memoization).
		tInner := new(big.Int).Rsh(gens, 1)
		tOuter := new(big.Int).Sub(gens, tInner)

		ndim := n.ndim
		bf := 1 << uint(ndim)

		// 1. Array out the 4^D grandchildren at layer L-2, time 0.
		q4 := make([]*Node, intPow(4, ndim))
		forEachCubePos(ndim, 4, func(p []int) {
			q4[flatIndex(p, 4)] = n.grandchild(p)
		})

		// 2.–3. Join each 2^D sub-cube into a layer L-1 node and
		// advance it to time t_inner, giving a 3^D cube at layer L-2.
		var rerr error
		sub := make([]*Node, bf)
		pos := make([]int, ndim)
		r3 := make([]*Node, intPow(3, ndim))
		forEachCubePos(ndim, 3, func(p []int) {
			if rerr != nil {
				return
			}
			for j := 0; j < bf; j++ {
				for k := range pos {
					pos[k] = p[k] + ((j >> k) & 1)
				}
				sub[j] = q4[flatIndex(pos, 4)]
			}
			r, err := s.advanceInner(c, c.Join(sub), tInner)
			if err != nil {
				rerr = err
				return
			}
			r3[flatIndex(p, 3)] = r
		})
		if rerr != nil {
			return nil, rerr
		}

		// 4.–5. Join again into a 2^D cube of layer L-1 nodes and
		// advance each to time t_outer: the quarter-sized results.
		r2 := make([]*Node, bf)
		forEachCubePos(ndim, 2, func(q []int) {
			if rerr != nil {
				return
			}
			for j := 0; j < bf; j++ {
				for k := range pos {
					pos[k] = q[k] + ((j >> k) & 1)
				}
				sub[j] = r3[flatIndex(pos, 3)]
			}
			r, err := s.advanceInner(c, c.Join(sub), tOuter)
			if err != nil {
				rerr = err
				return
			}
			r2[flatIndex(q, 2)] = r
		})
		if rerr != nil {
			return nil, rerr
		}

		// 6. Join the results into the final layer L-1 node.
		result = c.Join(r2)
	}

	c.SetResult(n, gens, s.tag, result)
	return result, nil
}

// advanceDirect arrays out the node's cells and applies the transition
// function generation by generation. The validity window shrinks by
// the rule's radius per generation; the inner quarter that is
// ultimately extracted stays well inside it.
func (s *Simulation) advanceDirect(c *Cache, n *Node, gens uint64) *Node {
	ndim := n.ndim
	side := 1 << uint(n.layer)
	radius := s.rule.Radius()
	if radius*int(gens) > side/4 {
		panic(fmt.Errorf("%w: %d generations exceed the sphere of influence at layer %d", ErrInvariantViolation, gens, n.layer))
	}

	grid := make([]CellState, intPow(side, ndim))
	n.fillGrid(grid, side, make([]int, ndim))
	buf := make([]CellState, len(grid))
	copy(buf, grid)

	nb := &Neighborhood{side: side, ndim: ndim, center: make([]int, ndim), radius: radius}
	for gen := uint64(1); gen <= gens; gen++ {
		margin := int(gen) * radius
		nb.grid = grid
		forEachCubePos(ndim, side-2*margin, func(p []int) {
			for k := range p {
				nb.center[k] = p[k] + margin
			}
			buf[flatIndex(nb.center, side)] = s.trans(nb)
		})
		grid, buf = buf, grid
	}

	origin := make([]int, ndim)
	for k := range origin {
		origin[k] = side / 4
	}
	return c.NodeFromGrid(n.layer-1, grid, side, origin)
}

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigVecArithmetic(t *testing.T) {
	t.Parallel()

	a := BigVecFromInts(3, -5)
	b := BigVecFromInts(1, 2)

	assert.True(t, a.Add(b).Eq(BigVecFromInts(4, -3)))
	assert.True(t, a.Sub(b).Eq(BigVecFromInts(2, -7)))
	assert.True(t, a.Neg().Eq(BigVecFromInts(-3, 5)))
	assert.True(t, a.Shl(2).Eq(BigVecFromInts(12, -20)))
	assert.True(t, a.AddScalar(big.NewInt(10)).Eq(BigVecFromInts(13, 5)))
	// The receiver is never mutated.
	assert.True(t, a.Eq(BigVecFromInts(3, -5)))
}

func TestBigVecFloorDivision(t *testing.T) {
	t.Parallel()

	four := big.NewInt(4)
	v := BigVecFromInts(-5, 7)

	assert.True(t, v.DivFloor(four).Eq(BigVecFromInts(-2, 1)), "floor division rounds toward -inf")
	assert.True(t, v.ModFloor(four).Eq(BigVecFromInts(3, 3)), "floor modulo is never negative")
	assert.True(t, v.DivOutward(four).Eq(BigVecFromInts(-2, 2)), "outward division rounds away from zero")
	assert.True(t, BigVecFromInts(-8, 8).DivOutward(four).Eq(BigVecFromInts(-2, 2)), "exact quotients stay exact")
	// An arithmetic shift matches floor division by a power of two.
	assert.True(t, v.Shr(2).Eq(v.DivFloor(four)))
}

func TestBigRectBasics(t *testing.T) {
	t.Parallel()

	r := SpanBigRect(BigVecFromInts(2, -1), BigVecFromInts(-2, 3))
	assert.True(t, r.Min().Eq(BigVecFromInts(-2, -1)), "span normalizes corners")
	assert.True(t, r.Max().Eq(BigVecFromInts(2, 3)))
	assert.True(t, r.Size().Eq(BigVecFromInts(5, 5)), "corners are inclusive")

	assert.True(t, r.Contains(BigVecFromInts(0, 0)))
	assert.True(t, r.Contains(BigVecFromInts(-2, 3)), "corners are inside")
	assert.False(t, r.Contains(BigVecFromInts(3, 0)))

	other := SpanBigRect(BigVecFromInts(1, 1), BigVecFromInts(9, 9))
	overlap, ok := r.Intersect(other)
	require.True(t, ok)
	assert.True(t, overlap.Min().Eq(BigVecFromInts(1, 1)))
	assert.True(t, overlap.Max().Eq(BigVecFromInts(2, 3)))

	far := SpanBigRect(BigVecFromInts(10, 10), BigVecFromInts(12, 12))
	_, ok = r.Intersect(far)
	assert.False(t, ok)
}

func TestBigRectForEach(t *testing.T) {
	t.Parallel()

	r := SpanBigRect(BigVecFromInts(0, 0), BigVecFromInts(2, 1))
	var visited []string
	r.ForEach(func(pos BigVec) {
		visited = append(visited, pos.String())
	})
	// Lowest axis varies fastest.
	assert.Equal(t, []string{
		"(0, 0)", "(1, 0)", "(2, 0)",
		"(0, 1)", "(1, 1)", "(2, 1)",
	}, visited)
}

func TestCornerOffsets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{0, 0}, cornerOffset(2, 0))
	assert.Equal(t, []int{1, 0}, cornerOffset(2, 1))
	assert.Equal(t, []int{0, 1}, cornerOffset(2, 2))
	assert.Equal(t, []int{1, 1}, cornerOffset(2, 3))
	assert.Equal(t, []int{1, 0, 1}, cornerOffset(3, 5))
}

func TestCubeIterationRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ ndim, side int }{{1, 8}, {2, 4}, {3, 3}, {4, 2}} {
		seen := make([]bool, intPow(tc.side, tc.ndim))
		last := -1
		forEachCubePos(tc.ndim, tc.side, func(p []int) {
			idx := flatIndex(p, tc.side)
			require.Equal(t, last+1, idx, "scan order is dense and increasing")
			seen[idx] = true
			last = idx
		})
		for i, ok := range seen {
			require.True(t, ok, "missed index %d for side %d ndim %d", i, tc.side, tc.ndim)
		}
	}
}

func TestIVecArithmetic(t *testing.T) {
	t.Parallel()

	a := IVec{6, -2}
	assert.True(t, a.Add(IVec{1, 1}).Eq(IVec{7, -1}))
	assert.True(t, a.Sub(IVec{1, 1}).Eq(IVec{5, -3}))
	assert.True(t, a.Neg().Eq(IVec{-6, 2}))
	assert.True(t, a.Shl(1).Eq(IVec{12, -4}))
	assert.True(t, a.Shr(1).Eq(IVec{3, -1}))
	assert.True(t, RepeatIVec(3, 4).Eq(IVec{4, 4, 4}))
}

func TestAxisNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "X", AxisX.String())
	assert.Equal(t, "V", AxisV.String())
	assert.Equal(t, []Axis{AxisX, AxisY, AxisZ}, Axes(3))
}

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

// BigRect is an axis-aligned hyperrectangle with inclusive corners.
type BigRect struct {
	min BigVec
	max BigVec
}

// SpanBigRect builds the smallest rectangle containing both corners;
// the arguments do not have to be ordered.
func SpanBigRect(a, b BigVec) BigRect {
	min := a.Copy()
	max := b.Copy()
	for i := range min {
		if min[i].Cmp(max[i]) > 0 {
			min[i], max[i] = max[i], min[i]
		}
	}
	return BigRect{min: min, max: max}
}

// Min returns the inclusive lower corner.
func (r BigRect) Min() BigVec { return r.min.Copy() }

// Max returns the inclusive upper corner.
func (r BigRect) Max() BigVec { return r.max.Copy() }

// NumDims returns the dimensionality of the rectangle.
func (r BigRect) NumDims() int { return len(r.min) }

// Size returns max - min + 1 along every axis.
func (r BigRect) Size() BigVec {
	out := r.max.Sub(r.min)
	for i := range out {
		out[i].Add(out[i], bigOne)
	}
	return out
}

// Contains reports whether pos lies inside the rectangle.
func (r BigRect) Contains(pos BigVec) bool {
	for i := range pos {
		if pos[i].Cmp(r.min[i]) < 0 || pos[i].Cmp(r.max[i]) > 0 {
			return false
		}
	}
	return true
}

// ContainsRect reports whether o lies entirely inside the rectangle.
func (r BigRect) ContainsRect(o BigRect) bool {
	return r.Contains(o.min) && r.Contains(o.max)
}

// Intersect returns the overlap of two rectangles, if any.
func (r BigRect) Intersect(o BigRect) (BigRect, bool) {
	min := r.min.Copy()
	max := r.max.Copy()
	for i := range min {
		if o.min[i].Cmp(min[i]) > 0 {
			min[i].Set(o.min[i])
		}
		if o.max[i].Cmp(max[i]) < 0 {
			max[i].Set(o.max[i])
		}
		if min[i].Cmp(max[i]) > 0 {
			return BigRect{}, false
		}
	}
	return BigRect{min: min, max: max}, true
}

// ForEach visits every integer point of the rectangle in scan order
// (lowest axis varies fastest). Only call this on rectangles known to
// be small. The same backing vector is reused across calls; fn must
// not retain it.
func (r BigRect) ForEach(fn func(pos BigVec)) {
	pos := r.min.Copy()
	for {
		fn(pos)
		k := 0
		for ; k < len(pos); k++ {
			pos[k].Add(pos[k], bigOne)
			if pos[k].Cmp(r.max[k]) <= 0 {
				break
			}
			pos[k].Set(r.min[k])
		}
		if k == len(pos) {
			return
		}
	}
}

func (r BigRect) String() string {
	return fmt.Sprintf("[%s .. %s]", r.min, r.max)
}

// rectSpanning returns the rectangle with the given lower corner and
// side length 2^layer along every axis.
func rectSpanning(min BigVec, layer int) BigRect {
	size := bigPow2(layer)
	max := min.AddScalar(new(big.Int).Sub(size, bigOne))
	return BigRect{min: min.Copy(), max: max}
}

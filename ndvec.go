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

// IVec is a fixed-width vector with one component per axis. It is only
// used for coordinates that are known to fit in an int64, i.e. offsets
// within a single node; anything that can span the whole grid uses
// BigVec instead. Arithmetic wraps on overflow like any Go integer.
type IVec []int64

// NewIVec returns the origin vector with ndim components.
func NewIVec(ndim int) IVec {
	checkDims(ndim)
	return make(IVec, ndim)
}

// RepeatIVec returns a vector with every component set to v.
func RepeatIVec(ndim int, v int64) IVec {
	vec := NewIVec(ndim)
	for i := range vec {
		vec[i] = v
	}
	return vec
}

func (v IVec) Copy() IVec {
	out := make(IVec, len(v))
	copy(out, v)
	return out
}

func (v IVec) Add(o IVec) IVec {
	out := v.Copy()
	for i := range out {
		out[i] += o[i]
	}
	return out
}

func (v IVec) Sub(o IVec) IVec {
	out := v.Copy()
	for i := range out {
		out[i] -= o[i]
	}
	return out
}

func (v IVec) Neg() IVec {
	out := v.Copy()
	for i := range out {
		out[i] = -out[i]
	}
	return out
}

func (v IVec) Shl(n uint) IVec {
	out := v.Copy()
	for i := range out {
		out[i] <<= n
	}
	return out
}

func (v IVec) Shr(n uint) IVec {
	out := v.Copy()
	for i := range out {
		out[i] >>= n
	}
	return out
}

func (v IVec) Eq(o IVec) bool {
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// cornerOffset maps a child index in [0, 2^ndim) to its 0/1 corner
// vector: bit k of the index selects the upper half along axis k.
func cornerOffset(ndim, index int) []int {
	p := make([]int, ndim)
	for k := 0; k < ndim; k++ {
		p[k] = (index >> k) & 1
	}
	return p
}

// forEachCubePos visits every integer point of [0, side)^ndim in scan
// order (lowest axis varies fastest). The same backing slice is reused
// across calls; fn must not retain it.
func forEachCubePos(ndim, side int, fn func(p []int)) {
	p := make([]int, ndim)
	for {
		fn(p)
		k := 0
		for ; k < ndim; k++ {
			p[k]++
			if p[k] < side {
				break
			}
			p[k] = 0
		}
		if k == ndim {
			return
		}
	}
}

// flatIndex converts a point of [0, side)^ndim to its scan-order index.
func flatIndex(p []int, side int) int {
	idx := 0
	for k := len(p) - 1; k >= 0; k-- {
		idx = idx*side + p[k]
	}
	return idx
}

// intPow returns side^ndim; both arguments are small.
func intPow(side, ndim int) int {
	n := 1
	for i := 0; i < ndim; i++ {
		n *= side
	}
	return n
}

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
	"strings"
)

// BigVec is an arbitrary-precision vector with one component per axis.
// Global cell coordinates, tree offsets, and anything else that can
// outgrow a machine word is a BigVec. All methods return fresh vectors;
// the receiver is never mutated.
type BigVec []*big.Int

// NewBigVec returns the origin vector with ndim components.
func NewBigVec(ndim int) BigVec {
	checkDims(ndim)
	v := make(BigVec, ndim)
	for i := range v {
		v[i] = new(big.Int)
	}
	return v
}

// BigVecFromInts builds a BigVec from int64 components.
func BigVecFromInts(comps ...int64) BigVec {
	v := NewBigVec(len(comps))
	for i, c := range comps {
		v[i].SetInt64(c)
	}
	return v
}

// RepeatBigVec returns a vector with every component set to v.
func RepeatBigVec(ndim int, v *big.Int) BigVec {
	out := NewBigVec(ndim)
	for i := range out {
		out[i].Set(v)
	}
	return out
}

func (v BigVec) Copy() BigVec {
	out := make(BigVec, len(v))
	for i := range out {
		out[i] = new(big.Int).Set(v[i])
	}
	return out
}

func (v BigVec) Add(o BigVec) BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Add(out[i], o[i])
	}
	return out
}

func (v BigVec) Sub(o BigVec) BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Sub(out[i], o[i])
	}
	return out
}

func (v BigVec) Neg() BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Neg(out[i])
	}
	return out
}

// AddScalar adds s to every component.
func (v BigVec) AddScalar(s *big.Int) BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Add(out[i], s)
	}
	return out
}

// SubScalar subtracts s from every component.
func (v BigVec) SubScalar(s *big.Int) BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Sub(out[i], s)
	}
	return out
}

// Shl multiplies every component by 2^n.
func (v BigVec) Shl(n uint) BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Lsh(out[i], n)
	}
	return out
}

// Shr divides every component by 2^n, rounding toward negative
// infinity (an arithmetic shift).
func (v BigVec) Shr(n uint) BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Rsh(out[i], n)
	}
	return out
}

// DivFloor divides every component by d (> 0), rounding toward
// negative infinity.
func (v BigVec) DivFloor(d *big.Int) BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Div(out[i], d)
	}
	return out
}

// ModFloor reduces every component modulo d (> 0); results are always
// in [0, d).
func (v BigVec) ModFloor(d *big.Int) BigVec {
	out := v.Copy()
	for i := range out {
		out[i].Mod(out[i], d)
	}
	return out
}

// DivOutward divides every component by d (> 0), rounding away from
// zero.
func (v BigVec) DivOutward(d *big.Int) BigVec {
	out := v.Copy()
	var rem big.Int
	for i := range out {
		out[i].QuoRem(out[i], d, &rem)
		switch rem.Sign() {
		case 1:
			out[i].Add(out[i], bigOne)
		case -1:
			out[i].Sub(out[i], bigOne)
		}
	}
	return out
}

func (v BigVec) Eq(o BigVec) bool {
	for i := range v {
		if v[i].Cmp(o[i]) != 0 {
			return false
		}
	}
	return true
}

func (v BigVec) String() string {
	parts := make([]string, len(v))
	for i := range v {
		parts[i] = v[i].String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

var bigOne = big.NewInt(1)

// bigPow2 returns 2^exp.
func bigPow2(exp int) *big.Int {
	return new(big.Int).Lsh(bigOne, uint(exp))
}

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

import "fmt"

// MaxDims is the largest number of dimensions a grid can have.
const MaxDims = 6

// Axis names one dimension of a grid.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisW
	AxisU
	AxisV
)

var axisNames = [MaxDims]string{"X", "Y", "Z", "W", "U", "V"}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// Axes returns the axes of an ndim-dimensional grid, lowest first.
func Axes(ndim int) []Axis {
	axes := make([]Axis, ndim)
	for i := range axes {
		axes[i] = Axis(i)
	}
	return axes
}

func checkDims(ndim int) {
	if ndim < 1 || ndim > MaxDims {
		panic(fmt.Sprintf("ndlife: dimension count %d outside [1, %d]", ndim, MaxDims))
	}
}

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

// TreeSlice is a read-only view of a subtree: a node plus the global
// coordinates of its lower corner. Renderers consume slices instead of
// whole trees so they never observe a root swap mid-frame.
type TreeSlice struct {
	Root   *Node
	Offset BigVec
}

// Rect returns the rectangle of the grid the slice covers.
func (s TreeSlice) Rect() BigRect {
	return s.Root.Rect(s.Offset)
}

// GetCell returns the state of the cell at the given global position,
// or 0 for any position outside the slice.
func (s TreeSlice) GetCell(pos BigVec) CellState {
	if !s.Rect().Contains(pos) {
		return 0
	}
	return s.Root.Cell(pos.Sub(s.Offset))
}

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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gliderRLE = `#N Glider
#C The smallest spaceship.
x = 3, y = 3, rule = B3/S23
bob$2bo$3o!
`

func TestDecodeRLE(t *testing.T) {
	t.Parallel()

	pattern, err := DecodeRLE(strings.NewReader(gliderRLE))
	require.NoError(t, err)
	assert.Equal(t, "B3/S23", pattern.Rule)
	assert.Equal(t, 5, pattern.Population())

	want := map[[2]int64]bool{
		{1, 0}: true, {2, 1}: true, {0, 2}: true, {1, 2}: true, {2, 2}: true,
	}
	for _, cell := range pattern.Cells {
		pos := [2]int64{cell.Pos[0].Int64(), cell.Pos[1].Int64()}
		assert.True(t, want[pos], "unexpected live cell at %v", pos)
		delete(want, pos)
	}
	assert.Empty(t, want, "missing live cells")
}

func TestDecodeRLERuns(t *testing.T) {
	t.Parallel()

	pattern, err := DecodeRLE(strings.NewReader("x = 5, y = 2\n5o$2b3o!\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, pattern.Population())
	// Second row starts after the skip of two dead cells.
	has := func(x, y int64) bool {
		for _, cell := range pattern.Cells {
			if cell.Pos[0].Int64() == x && cell.Pos[1].Int64() == y {
				return true
			}
		}
		return false
	}
	assert.True(t, has(4, 0))
	assert.False(t, has(0, 1))
	assert.False(t, has(1, 1))
	assert.True(t, has(2, 1))
	assert.True(t, has(4, 1))
}

func TestDecodeRLERejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := DecodeRLE(strings.NewReader("x = 2, y = 1\noz!\n"))
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	original, err := DecodeRLE(strings.NewReader(gliderRLE))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeRLE(&buf, original))
	decoded, err := DecodeRLE(&buf)
	require.NoError(t, err)

	assert.Equal(t, original.Rule, decoded.Rule)
	require.Equal(t, original.Population(), decoded.Population())
	// Encoding normalizes to the bounding box, and the glider already
	// touches both axes at 0, so the cells round-trip exactly.
	seen := make(map[[2]int64]bool)
	for _, cell := range original.Cells {
		seen[[2]int64{cell.Pos[0].Int64(), cell.Pos[1].Int64()}] = true
	}
	for _, cell := range decoded.Cells {
		pos := [2]int64{cell.Pos[0].Int64(), cell.Pos[1].Int64()}
		assert.True(t, seen[pos], "cell %v appeared from nowhere", pos)
	}
}

func TestEncodeRLEEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, EncodeRLE(&buf, &Pattern{NumDims: 2}))
	assert.Contains(t, buf.String(), "x = 0, y = 0")
	assert.Contains(t, buf.String(), "!")
}

func TestEncodeRLERejectsOtherDims(t *testing.T) {
	t.Parallel()

	err := EncodeRLE(&bytes.Buffer{}, &Pattern{NumDims: 3})
	assert.Error(t, err)
}

func TestPatternTreeRoundTrip(t *testing.T) {
	t.Parallel()

	pattern, err := DecodeRLE(strings.NewReader(gliderRLE))
	require.NoError(t, err)

	tree := NewTree(NewCache(2))
	pattern.Apply(tree)
	assert.Equal(t, "5", tree.Population().String())

	extracted := PatternFromTree(tree)
	assert.Equal(t, pattern.Population(), extracted.Population())
	for _, cell := range extracted.Cells {
		assert.EqualValues(t, 1, cell.State)
		assert.EqualValues(t, 1, tree.GetCell(cell.Pos))
	}
}

func TestPatternFromTreeNegativeCoords(t *testing.T) {
	t.Parallel()

	tree := NewTree(NewCache(2))
	tree.SetCell(BigVecFromInts(-40, -40), 3)
	tree.SetCell(BigVecFromInts(40, 40), 2)

	pattern := PatternFromTree(tree)
	require.Equal(t, 2, pattern.Population())
	states := map[string]CellState{}
	for _, cell := range pattern.Cells {
		states[cell.Pos.String()] = cell.State
	}
	assert.EqualValues(t, 3, states["(-40, -40)"])
	assert.EqualValues(t, 2, states["(40, 40)"])
}

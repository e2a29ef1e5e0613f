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
	"bufio"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"
)

// PatternCell is one live cell of a pattern: an arbitrary-precision
// coordinate and a nonzero state.
type PatternCell struct {
	Pos   BigVec
	State CellState
}

// Pattern is a finite set of live cells, the interchange form of a
// grid's contents. The zero state is implicit.
type Pattern struct {
	NumDims int
	Rule    string // rule string carried by the source file, if any
	Cells   []PatternCell
}

// Apply writes every cell of the pattern into the tree.
func (p *Pattern) Apply(t *Tree) {
	for _, cell := range p.Cells {
		t.SetCell(cell.Pos, cell.State)
	}
}

// Population returns the number of live cells in the pattern.
func (p *Pattern) Population() int { return len(p.Cells) }

// PatternFromTree extracts every live cell of the tree. The pattern is
// materialized cell by cell, so only call this on trees whose
// population fits in memory.
func PatternFromTree(t *Tree) *Pattern {
	p := &Pattern{NumDims: t.NumDims()}
	collectCells(t.Root(), t.Offset(), &p.Cells)
	return p
}

func collectCells(n *Node, offset BigVec, out *[]PatternCell) {
	if n.IsEmpty() {
		return
	}
	if n.IsLeaf() {
		side := 1 << uint(n.layer)
		forEachCubePos(n.ndim, side, func(pos []int) {
			state := n.cells[flatIndex(pos, side)]
			if state == 0 {
				return
			}
			global := offset.Copy()
			for k := range pos {
				global[k].Add(global[k], big.NewInt(int64(pos[k])))
			}
			*out = append(*out, PatternCell{Pos: global, State: state})
		})
		return
	}
	half := bigPow2(n.layer - 1)
	for i, child := range n.children {
		sub := offset.Copy()
		for k := range sub {
			if i>>k&1 == 1 {
				sub[k].Add(sub[k], half)
			}
		}
		collectCells(child, sub, out)
	}
}

// DecodeRLE parses a 2D pattern in run-length-encoded form, the
// interchange format of the wider cellular-automata tool ecosystem.
// The pattern's top-left corner is placed at the origin, columns along
// the first axis and rows along the second.
func DecodeRLE(r io.Reader) (*Pattern, error) {
	p := &Pattern{NumDims: 2}
	scanner := bufio.NewScanner(r)

	var body strings.Builder
	sawHeader := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case !sawHeader && strings.HasPrefix(line, "x"):
			for _, field := range strings.Split(line, ",") {
				kv := strings.SplitN(field, "=", 2)
				if len(kv) != 2 {
					return nil, fmt.Errorf("malformed RLE header %q", line)
				}
				key := strings.TrimSpace(kv[0])
				value := strings.TrimSpace(kv[1])
				if key == "rule" {
					p.Rule = value
				}
			}
			sawHeader = true
		default:
			body.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var x, y, run int
	for _, ch := range body.String() {
		switch {
		case ch >= '0' && ch <= '9':
			run = run*10 + int(ch-'0')
		case ch == 'b' || ch == '.':
			x += runLength(run)
			run = 0
		case ch == 'o' || ch == 'A':
			for i := 0; i < runLength(run); i++ {
				p.Cells = append(p.Cells, PatternCell{
					Pos:   BigVecFromInts(int64(x), int64(y)),
					State: 1,
				})
				x++
			}
			run = 0
		case ch == '$':
			y += runLength(run)
			x = 0
			run = 0
		case ch == '!':
			return p, nil
		default:
			return nil, fmt.Errorf("unexpected RLE tag %q", string(ch))
		}
	}
	return p, nil
}

func runLength(run int) int {
	if run == 0 {
		return 1
	}
	return run
}

// EncodeRLE writes a 2D pattern in run-length-encoded form. The
// pattern is normalized so its bounding box starts at the top-left.
func EncodeRLE(w io.Writer, p *Pattern) error {
	if p.NumDims != 2 {
		return fmt.Errorf("RLE encoding is 2D only, pattern has %d dimensions", p.NumDims)
	}
	if len(p.Cells) == 0 {
		_, err := fmt.Fprintf(w, "x = 0, y = 0%s\n!\n", ruleHeader(p.Rule))
		return err
	}

	cells := make([]PatternCell, len(p.Cells))
	copy(cells, p.Cells)
	sort.Slice(cells, func(i, j int) bool {
		if c := cells[i].Pos[1].Cmp(cells[j].Pos[1]); c != 0 {
			return c < 0
		}
		return cells[i].Pos[0].Cmp(cells[j].Pos[0]) < 0
	})

	min := cells[0].Pos.Copy()
	max := cells[0].Pos.Copy()
	for _, cell := range cells {
		for k := 0; k < 2; k++ {
			if cell.Pos[k].Cmp(min[k]) < 0 {
				min[k].Set(cell.Pos[k])
			}
			if cell.Pos[k].Cmp(max[k]) > 0 {
				max[k].Set(cell.Pos[k])
			}
		}
	}
	size := SpanBigRect(min, max).Size()
	if !size[0].IsInt64() || !size[1].IsInt64() {
		return fmt.Errorf("pattern bounding box too large for RLE")
	}

	if _, err := fmt.Fprintf(w, "x = %s, y = %s%s\n", size[0], size[1], ruleHeader(p.Rule)); err != nil {
		return err
	}

	var b strings.Builder
	var local big.Int
	row, col := int64(0), int64(0)
	for _, cell := range cells {
		r := local.Sub(cell.Pos[1], min[1]).Int64()
		c := new(big.Int).Sub(cell.Pos[0], min[0]).Int64()
		if r > row {
			writeRun(&b, int(r-row), '$')
			row, col = r, 0
		}
		if c > col {
			writeRun(&b, int(c-col), 'b')
		}
		writeRun(&b, 1, 'o')
		col = c + 1
	}
	b.WriteByte('!')

	// Wrap lines the way other tools do.
	text := b.String()
	for len(text) > 70 {
		if _, err := fmt.Fprintln(w, text[:70]); err != nil {
			return err
		}
		text = text[70:]
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func ruleHeader(rule string) string {
	if rule == "" {
		return ""
	}
	return ", rule = " + rule
}

func writeRun(b *strings.Builder, n int, tag byte) {
	if n > 1 {
		fmt.Fprintf(b, "%d", n)
	}
	b.WriteByte(tag)
}

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
	"strings"

	"github.com/casbin/govaluate"
	"github.com/google/uuid"
)

// RuleTag is the opaque identity of a rule, used to key memoized step
// results. Equal rules must produce equal tags; the tag must be stable
// for at least the lifetime of a step.
type RuleTag string

// TransitionFunction maps a local neighborhood of cells to the next
// state of the neighborhood's target cell. It must be deterministic,
// free of hidden state, and safe to call from multiple goroutines.
type TransitionFunction func(nb *Neighborhood) CellState

// Rule is the automaton rule consumed by the simulation: a maximum
// neighborhood radius plus a pure transition function.
type Rule interface {
	// Radius is the maximum neighborhood radius the transition
	// function reads, bounding how fast information can travel.
	Radius() int

	// NumDims returns the dimensionality the rule operates in.
	NumDims() int

	// TransitionFunction returns the transition function. The returned
	// callable may be retained for the whole step.
	TransitionFunction() TransitionFunction

	// Tag returns the rule's identity for result-cache keys.
	Tag() RuleTag
}

// Neighborhood is a read-only window of radius r around a target cell,
// backed by a flat scratch grid. The stepper hands one to the
// transition function for every cell it evaluates directly.
type Neighborhood struct {
	grid   []CellState
	side   int
	ndim   int
	center []int
	radius int
}

// NumDims returns the dimensionality of the window.
func (nb *Neighborhood) NumDims() int { return nb.ndim }

// Radius returns the window's radius.
func (nb *Neighborhood) Radius() int { return nb.radius }

// Center returns the state of the target cell.
func (nb *Neighborhood) Center() CellState {
	return nb.grid[flatIndex(nb.center, nb.side)]
}

// Cell returns the state of the cell at the given offset from the
// target, one component per axis, each within [-radius, radius].
func (nb *Neighborhood) Cell(rel ...int) CellState {
	if len(rel) != nb.ndim {
		panic(fmt.Errorf("%w: %d-component offset in %d dimensions", ErrInvariantViolation, len(rel), nb.ndim))
	}
	idx := 0
	for k := nb.ndim - 1; k >= 0; k-- {
		idx = idx*nb.side + nb.center[k] + rel[k]
	}
	return nb.grid[idx]
}

// neighborOffsets lists every offset of [-r, r]^D except the origin.
func neighborOffsets(ndim, radius int) [][]int {
	diameter := 2*radius + 1
	offsets := make([][]int, 0, intPow(diameter, ndim)-1)
	forEachCubePos(ndim, diameter, func(p []int) {
		origin := true
		rel := make([]int, ndim)
		for k := range p {
			rel[k] = p[k] - radius
			if rel[k] != 0 {
				origin = false
			}
		}
		if !origin {
			offsets = append(offsets, rel)
		}
	})
	return offsets
}

// TotalisticRule is a Life-like birth/survival rule over the radius-1
// Moore neighborhood, generalized to any dimensionality: a dead cell
// is born when its live-neighbor count is in the birth set, a live
// cell survives when its count is in the survival set.
type TotalisticRule struct {
	ndim     int
	birth    []bool
	survive  []bool
	offsets  [][]int
	notation string
	tag      RuleTag
}

// NewTotalisticRule builds a rule from explicit birth and survival
// neighbor counts.
func NewTotalisticRule(ndim int, birth, survive []int) *TotalisticRule {
	checkDims(ndim)
	numNeighbors := intPow(3, ndim) - 1
	r := &TotalisticRule{
		ndim:    ndim,
		birth:   make([]bool, numNeighbors+1),
		survive: make([]bool, numNeighbors+1),
		offsets: neighborOffsets(ndim, 1),
	}
	for _, n := range birth {
		if n >= 0 && n <= numNeighbors {
			r.birth[n] = true
		}
	}
	for _, n := range survive {
		if n >= 0 && n <= numNeighbors {
			r.survive[n] = true
		}
	}
	r.notation = r.canonical()
	r.tag = makeRuleTag("totalistic", r.ndim, r.notation)
	return r
}

// ParseRule parses a rule string in B/S notation, e.g. "B3/S23" or
// "B3,6/S2,3" for counts above 9.
func ParseRule(ndim int, s string) (*TotalisticRule, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed rule string %q: want B.../S...", s)
	}
	birth, err := parseRuleCounts(parts[0], "B")
	if err != nil {
		return nil, fmt.Errorf("malformed rule string %q: %w", s, err)
	}
	survive, err := parseRuleCounts(parts[1], "S")
	if err != nil {
		return nil, fmt.Errorf("malformed rule string %q: %w", s, err)
	}
	return NewTotalisticRule(ndim, birth, survive), nil
}

func parseRuleCounts(part, prefix string) ([]int, error) {
	part = strings.TrimSpace(part)
	if !strings.HasPrefix(strings.ToUpper(part), prefix) {
		return nil, fmt.Errorf("segment %q does not start with %s", part, prefix)
	}
	// Classic notation runs digits together ("23"); the
	// comma-separated form covers counts above 9.
	body := part[1:]
	var counts []int
	if strings.Contains(body, ",") {
		for _, field := range strings.Split(body, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n := 0
			for _, ch := range field {
				if ch < '0' || ch > '9' {
					return nil, fmt.Errorf("bad neighbor count %q", field)
				}
				n = n*10 + int(ch-'0')
			}
			counts = append(counts, n)
		}
	} else {
		for _, ch := range body {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("bad neighbor count %q", string(ch))
			}
			counts = append(counts, int(ch-'0'))
		}
	}
	return counts, nil
}

// ConwayLife returns the classic 2D B3/S23 rule.
func ConwayLife() *TotalisticRule {
	return NewTotalisticRule(2, []int{3}, []int{2, 3})
}

func (r *TotalisticRule) Radius() int  { return 1 }
func (r *TotalisticRule) NumDims() int { return r.ndim }
func (r *TotalisticRule) Tag() RuleTag { return r.tag }

// String returns the rule in B/S notation.
func (r *TotalisticRule) String() string { return r.notation }

func (r *TotalisticRule) canonical() string {
	// Digits run together in the classic notation; once any count
	// needs two digits, both sets switch to commas.
	commas := false
	for n := 10; n < len(r.birth); n++ {
		if r.birth[n] || r.survive[n] {
			commas = true
		}
	}
	var b strings.Builder
	b.WriteByte('B')
	writeCounts(&b, r.birth, commas)
	b.WriteString("/S")
	writeCounts(&b, r.survive, commas)
	return b.String()
}

func writeCounts(b *strings.Builder, set []bool, commas bool) {
	first := true
	for n, ok := range set {
		if !ok {
			continue
		}
		if commas && !first {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d", n)
		first = false
	}
}

func (r *TotalisticRule) TransitionFunction() TransitionFunction {
	return func(nb *Neighborhood) CellState {
		count := 0
		for _, rel := range r.offsets {
			if nb.Cell(rel...) != 0 {
				count++
			}
		}
		if nb.Center() != 0 {
			if r.survive[count] {
				return 1
			}
			return 0
		}
		if r.birth[count] {
			return 1
		}
		return 0
	}
}

// ExprRule defines a transition by evaluating an expression over the
// neighborhood. The expression sees three parameters: "center" (the
// target cell's state), "sum" (the sum of all neighbor states), and
// "alive" (the count of nonzero neighbors). A boolean result maps to
// states 1/0; a numeric result is truncated to a cell state.
type ExprRule struct {
	ndim    int
	radius  int
	expr    *govaluate.EvaluableExpression
	offsets [][]int
	tag     RuleTag
}

// NewExprRule compiles an expression rule with the given neighborhood
// radius. The expression is validated by evaluating it once against an
// all-zero neighborhood.
func NewExprRule(ndim, radius int, expression string) (*ExprRule, error) {
	checkDims(ndim)
	if radius < 1 {
		return nil, fmt.Errorf("expression rule radius must be at least 1, got %d", radius)
	}
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("parsing rule expression: %w", err)
	}
	r := &ExprRule{
		ndim:    ndim,
		radius:  radius,
		expr:    expr,
		offsets: neighborOffsets(ndim, radius),
		tag:     makeRuleTag("expr", ndim, fmt.Sprintf("r%d:%s", radius, expression)),
	}
	if _, err := r.eval(0, 0, 0); err != nil {
		return nil, fmt.Errorf("evaluating rule expression: %w", err)
	}
	return r, nil
}

func (r *ExprRule) Radius() int  { return r.radius }
func (r *ExprRule) NumDims() int { return r.ndim }
func (r *ExprRule) Tag() RuleTag { return r.tag }

func (r *ExprRule) eval(center CellState, sum, alive int) (CellState, error) {
	result, err := r.expr.Evaluate(map[string]interface{}{
		"center": float64(center),
		"sum":    float64(sum),
		"alive":  float64(alive),
	})
	if err != nil {
		return 0, err
	}
	switch v := result.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		if v < 0 {
			return 0, nil
		}
		return CellState(uint64(v)), nil
	default:
		return 0, fmt.Errorf("rule expression returned %T, want bool or number", result)
	}
}

func (r *ExprRule) TransitionFunction() TransitionFunction {
	return func(nb *Neighborhood) CellState {
		sum, alive := 0, 0
		for _, rel := range r.offsets {
			c := nb.Cell(rel...)
			if c != 0 {
				alive++
			}
			sum += int(c)
		}
		state, err := r.eval(nb.Center(), sum, alive)
		if err != nil {
			// The expression was validated at construction; a runtime
			// failure means a bug, not bad user input.
			panic(fmt.Errorf("%w: %v", ErrInvariantViolation, err))
		}
		return state
	}
}

func makeRuleTag(kind string, ndim int, notation string) RuleTag {
	name := fmt.Sprintf("ndlife:rule:%s:%dD:%s", kind, ndim, notation)
	return RuleTag(uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String())
}

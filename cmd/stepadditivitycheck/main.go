package main

import (
	"fmt"
	"math/big"
	"math/rand"
	"sort"

	ndlife "github.com/ndlife/go-ndlife"
)

// Checks that stepping a random soup by t1 then t2 matches stepping a
// copy of it by t1+t2 in one call, forever, over random soups and
// random step splits.
func main() {
	rng := rand.New(rand.NewSource(1))
	rule := ndlife.ConwayLife()

	for attempt := 0; ; attempt++ {
		fmt.Println("attempt #", attempt)

		var cells [][2]int64
		for y := int64(0); y < 32; y++ {
			for x := int64(0); x < 32; x++ {
				if rng.Intn(2) == 0 {
					cells = append(cells, [2]int64{x, y})
				}
			}
		}

		t1 := big.NewInt(rng.Int63n(200) + 1)
		t2 := big.NewInt(rng.Int63n(200) + 1)
		sum := new(big.Int).Add(t1, t2)

		split := buildTree(cells)
		whole := buildTree(cells)

		sim := ndlife.NewSimulation(rule)
		if err := sim.Step(split, t1); err != nil {
			panic(err)
		}
		if err := sim.Step(split, t2); err != nil {
			panic(err)
		}
		if err := sim.Step(whole, sum); err != nil {
			panic(err)
		}

		a := liveCells(split)
		b := liveCells(whole)
		if len(a) != len(b) {
			panic(fmt.Sprintf("population mismatch after %s+%s vs %s: %d != %d", t1, t2, sum, len(a), len(b)))
		}
		for i := range a {
			if a[i] != b[i] {
				panic(fmt.Sprintf("cell mismatch after %s+%s vs %s at %v != %v", t1, t2, sum, a[i], b[i]))
			}
		}
	}
}

func buildTree(cells [][2]int64) *ndlife.Tree {
	tree := ndlife.NewTree(ndlife.NewCache(2))
	for _, c := range cells {
		tree.SetCell(ndlife.BigVecFromInts(c[0], c[1]), 1)
	}
	return tree
}

func liveCells(tree *ndlife.Tree) [][2]int64 {
	pattern := ndlife.PatternFromTree(tree)
	out := make([][2]int64, 0, len(pattern.Cells))
	for _, cell := range pattern.Cells {
		out = append(out, [2]int64{cell.Pos[0].Int64(), cell.Pos[1].Int64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	return out
}

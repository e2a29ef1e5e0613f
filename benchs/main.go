package main

import (
	"fmt"
	"math/big"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	ndlife "github.com/ndlife/go-ndlife"
)

func main() {
	benchmarkStepSoup()
}

func benchmarkStepSoup() {
	f, _ := os.Create("cpu.prof")
	g, _ := os.Create("mem.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()
	defer func() { _ = pprof.WriteHeapProfile(g) }()

	// Side of the random soup square
	side := 256
	// Soup density
	density := 0.3

	rng := rand.New(rand.NewSource(42))
	sim := ndlife.NewSimulation(ndlife.ConwayLife())

	for run := 0; run < 4; run++ {
		cache := ndlife.NewCache(2)
		tree := ndlife.NewTree(cache)
		for y := 0; y < side; y++ {
			for x := 0; x < side; x++ {
				if rng.Float64() < density {
					tree.SetCell(ndlife.BigVecFromInts(int64(x), int64(y)), 1)
				}
			}
		}
		fmt.Printf("Built soup %d, population %s\n", run, tree.Population())

		// Step by sizes 2^0, 2^4, ..., 2^16 and measure each step
		for exp := 0; exp <= 16; exp += 4 {
			step := new(big.Int).Lsh(big.NewInt(1), uint(exp))
			start := time.Now()
			if err := sim.Step(tree, step); err != nil {
				panic(err)
			}
			elapsed := time.Since(start)
			stats := cache.Stats()
			fmt.Printf("  step 2^%-2d: %12v  pop=%-8s nodes=%d hits=%d\n",
				exp, elapsed, tree.Population(), stats.Nodes, stats.ResultHits)
		}
		cache.Collect(tree.Root())
	}
}

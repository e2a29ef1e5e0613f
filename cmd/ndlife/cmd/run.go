package cmd

import (
	"fmt"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	ndlife "github.com/ndlife/go-ndlife"
)

var (
	runGenerations string
	runRule        string
	runRulesFile   string
	runExprRule    string
	runNodeLimit   uint64
	runGC          bool
	runPrint       bool
	runOutDir      string
	runMetricsAddr string
)

// exprRuleFile is the schema of a --rules-file document.
type exprRuleFile struct {
	Rules map[string]struct {
		Expression string `yaml:"expression"`
		Radius     int    `yaml:"radius"`
		Dims       int    `yaml:"dims"`
	} `yaml:"rules"`
}

var runCmd = &cobra.Command{
	Use:   "run [flags] pattern.rle...",
	Short: "Advance RLE patterns by a number of generations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		generations, ok := new(big.Int).SetString(viper.GetString("generations"), 10)
		if !ok || generations.Sign() < 0 {
			return fmt.Errorf("invalid generation count %q", viper.GetString("generations"))
		}

		rule, err := buildRule()
		if err != nil {
			return err
		}

		registry := prometheus.NewRegistry()
		if runMetricsAddr != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
				logger.Info("serving metrics", "addr", runMetricsAddr)
				if err := http.ListenAndServe(runMetricsAddr, mux); err != nil {
					logger.Warn("metrics server stopped", "err", err)
				}
			}()
		}

		// Each pattern gets its own cache, so the runs are independent
		// and can advance concurrently.
		var g errgroup.Group
		for _, path := range args {
			path := path
			g.Go(func() error {
				return runPattern(path, rule, generations, registry)
			})
		}
		return g.Wait()
	},
}

func buildRule() (ndlife.Rule, error) {
	if runExprRule != "" {
		if runRulesFile == "" {
			return nil, fmt.Errorf("--expr-rule requires --rules-file")
		}
		data, err := os.ReadFile(runRulesFile)
		if err != nil {
			return nil, err
		}
		var file exprRuleFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", runRulesFile, err)
		}
		def, ok := file.Rules[runExprRule]
		if !ok {
			return nil, fmt.Errorf("rule %q not found in %s", runExprRule, runRulesFile)
		}
		dims := def.Dims
		if dims == 0 {
			dims = 2
		}
		radius := def.Radius
		if radius == 0 {
			radius = 1
		}
		return ndlife.NewExprRule(dims, radius, def.Expression)
	}
	return ndlife.ParseRule(2, viper.GetString("rule"))
}

func runPattern(path string, rule ndlife.Rule, generations *big.Int, registry *prometheus.Registry) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	pattern, err := ndlife.DecodeRLE(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	cache := ndlife.NewCache(rule.NumDims())
	if runNodeLimit > 0 {
		cache.SetHardLimit(runNodeLimit)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	reg := prometheus.WrapRegistererWithPrefix(name+"_", registry)
	if err := reg.Register(ndlife.NewCacheCollector(cache)); err != nil {
		logger.Warn("registering cache metrics", "file", path, "err", err)
	}

	tree := ndlife.NewTree(cache)
	pattern.Apply(tree)
	logger.Info("loaded pattern", "file", path, "population", tree.Population())

	sim := ndlife.NewSimulation(rule)
	if err := sim.Step(tree, generations); err != nil {
		return fmt.Errorf("stepping %s: %w", path, err)
	}
	if runGC {
		cache.Collect(tree.Root())
	}

	stats := cache.Stats()
	logger.Info("advanced pattern",
		"file", path,
		"generations", tree.Generation(),
		"population", tree.Population(),
		"bounds", tree.Rect(),
		"nodes", stats.Nodes,
		"result_hits", stats.ResultHits,
	)

	if runPrint && rule.NumDims() == 2 {
		printTree(tree)
	}
	if runOutDir != "" {
		out := filepath.Join(runOutDir, name+".out.rle")
		result := ndlife.PatternFromTree(tree)
		result.Rule = pattern.Rule
		w, err := os.Create(out)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := ndlife.EncodeRLE(w, result); err != nil {
			return fmt.Errorf("encoding %s: %w", out, err)
		}
		logger.Info("wrote result", "file", out)
	}
	return nil
}

// printTree renders a small 2D tree as ASCII art.
func printTree(tree *ndlife.Tree) {
	pattern := ndlife.PatternFromTree(tree)
	if len(pattern.Cells) == 0 {
		fmt.Println("(empty)")
		return
	}
	const maxSide = 120
	min := pattern.Cells[0].Pos.Copy()
	max := pattern.Cells[0].Pos.Copy()
	for _, cell := range pattern.Cells {
		for k := 0; k < 2; k++ {
			if cell.Pos[k].Cmp(min[k]) < 0 {
				min[k].Set(cell.Pos[k])
			}
			if cell.Pos[k].Cmp(max[k]) > 0 {
				max[k].Set(cell.Pos[k])
			}
		}
	}
	size := ndlife.SpanBigRect(min, max).Size()
	if !size[0].IsInt64() || size[0].Int64() > maxSide || size[1].Int64() > maxSide {
		fmt.Println("(too large to print)")
		return
	}
	w, h := size[0].Int64(), size[1].Int64()
	rows := make([][]byte, h)
	for y := range rows {
		rows[y] = []byte(strings.Repeat(".", int(w)))
	}
	for _, cell := range pattern.Cells {
		x := new(big.Int).Sub(cell.Pos[0], min[0]).Int64()
		y := new(big.Int).Sub(cell.Pos[1], min[1]).Int64()
		rows[y][x] = '#'
	}
	for _, row := range rows {
		fmt.Println(string(row))
	}
}

func init() {
	runCmd.Flags().StringVarP(&runGenerations, "generations", "g", "1", "Number of generations to advance (arbitrary precision)")
	runCmd.Flags().StringVar(&runRule, "rule", "B3/S23", "Life-like rule in B/S notation")
	runCmd.Flags().StringVar(&runRulesFile, "rules-file", "", "YAML file with named expression rules")
	runCmd.Flags().StringVar(&runExprRule, "expr-rule", "", "Name of an expression rule from --rules-file")
	runCmd.Flags().Uint64Var(&runNodeLimit, "node-limit", 0, "Hard cap on interned nodes (0 = unlimited)")
	runCmd.Flags().BoolVar(&runGC, "gc", true, "Collect unreachable cache nodes after the step")
	runCmd.Flags().BoolVar(&runPrint, "print", false, "Render small 2D results as ASCII")
	runCmd.Flags().StringVar(&runOutDir, "out-dir", "", "Write resulting patterns as RLE into this directory")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "Serve prometheus cache metrics on this address")

	_ = viper.BindPFlag("generations", runCmd.Flags().Lookup("generations"))
	_ = viper.BindPFlag("rule", runCmd.Flags().Lookup("rule"))

	rootCmd.AddCommand(runCmd)
}

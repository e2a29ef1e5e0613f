package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	verbose bool
	cfgFile string

	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ndlife",
	Short: "A HashLife simulator for N-dimensional cellular automata",
	Long: `ndlife advances sparse, unbounded cellular-automata grids by
arbitrary numbers of generations using Gosper's HashLife algorithm on a
hash-consed hyperoctree. It reads 2D patterns in RLE format and supports
2D Life-like B/S rules (--rule), as well as rules defined by
expressions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return err
			}
			logger.Debug("loaded config", "file", viper.ConfigFileUsed())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file with default flag values")

	rootCmd.Example = `  # Advance a glider by one million generations
  ndlife run -g 1000000 glider.rle

  # Use HighLife instead of Conway's Life
  ndlife run -g 100 --rule B36/S23 soup.rle

  # Run a rule defined in an expression rules file
  ndlife run -g 64 --rules-file rules.yaml --expr-rule slowburn soup.rle`
}

// Command fractal previews, benchmarks and configures fractal trees.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/fractal"
)

var (
	// Global flags
	verbose    bool
	configPath string
	depth      int
	seed       uint64
	workers    int
	batch      int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fractal",
	Short: "Animated fractal tree engine",
	Long: `fractal builds a tree of parts, five children per part, and animates it
with per-part spin and sag. Each level is updated in parallel.

Configuration is read from a YAML file (--config) and individual fields can
be overridden with flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and per-tick timings")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().IntVarP(&depth, "depth", "d", 0, "Override the number of levels (3-8)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Override the random seed")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Goroutines per level (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().IntVar(&batch, "batch", 0, "Minimum parts per goroutine (0 = default)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config, or the defaults, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (fractal.Config, error) {
	cfg := fractal.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = fractal.LoadConfig(configPath)
		if err != nil {
			return fractal.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("depth") {
		cfg.Depth = depth
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return fractal.Config{}, err
	}
	return cfg, nil
}

// newFractal builds an enabled fractal from the effective configuration.
func newFractal(cmd *cobra.Command) (*fractal.Fractal, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	f, err := fractal.New(cfg,
		fractal.WithLogger(logger),
		fractal.WithWorkers(workers),
		fractal.WithBatchSize(batch),
	)
	if err != nil {
		return nil, err
	}
	f.SetDebugMode(verbose)
	if err := f.Enable(); err != nil {
		return nil, err
	}
	return f, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/eaugeas/bstree/bench"
	"github.com/eaugeas/bstree/config"
	"github.com/eaugeas/bstree/logs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BenchConfig is the Binder for the flags of the benchmark
type BenchConfig struct {
	Size        int
	Trials      int
	Concurrency int
	Seed        int64
	Verify      bool
	Baseline    bool
}

// Bind is the implementation of config.Binder for BenchConfig
func (c *BenchConfig) Bind(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	flags.Int("bench.size", 10000, "number of values inserted in each trial")
	flags.Int("bench.trials", 5, "number of independent trials")
	flags.Int("bench.concurrency", 0, "trials that run at the same time, 0 uses GOMAXPROCS")
	flags.Int64("bench.seed", 0, "seed of the trials, 0 uses the clock")
	flags.Bool("bench.verify", false, "verify the trees after every phase")
	flags.Bool("bench.baseline", false, "run the same phases on a B-tree for reference")
	return nil
}

// Configure is the implementation of config.Binder for BenchConfig
func (c *BenchConfig) Configure(v *viper.Viper) error {
	c.Size = v.GetInt("bench.size")
	c.Trials = v.GetInt("bench.trials")
	c.Concurrency = v.GetInt("bench.concurrency")
	c.Seed = v.GetInt64("bench.seed")
	c.Verify = v.GetBool("bench.verify")
	c.Baseline = v.GetBool("bench.baseline")

	if c.Size <= 0 || c.Trials <= 0 {
		return errors.New("bench.size and bench.trials must be positive")
	}

	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}

	return nil
}

// Config is the configuration of bstbench
type Config struct {
	Logger config.LoggerConfig
	Bench  BenchConfig
}

// Use is the implementation of config.Config for Config
func (c *Config) Use() string {
	return "benchmark of the insertion, search and deletion of a binary search tree"
}

// EnvPrefix is the implementation of config.Config for Config
func (c *Config) EnvPrefix() string {
	return "BSTBENCH"
}

// Binders is the implementation of config.Config for Config
func (c *Config) Binders() []config.Binder {
	return []config.Binder{&c.Logger, &c.Bench}
}

func run(ctx context.Context, cfg *Config, logger logs.Logger) (*bench.Report, error) {
	report, err := bench.Run(ctx, bench.Opts{
		Size:        cfg.Bench.Size,
		Trials:      cfg.Bench.Trials,
		Concurrency: cfg.Bench.Concurrency,
		Seed:        cfg.Bench.Seed,
		Verify:      cfg.Bench.Verify,
		Baseline:    cfg.Bench.Baseline,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	for _, phase := range bench.Phases {
		logger.Info(ctx, "phase", bench.PhaseResult{Phase: phase, Duration: report.Mean(phase)})
		if cfg.Bench.Baseline {
			logger.Info(ctx, "baseline phase", bench.PhaseResult{Phase: phase, Duration: report.MeanBaseline(phase)})
		}
	}

	logger.Info(ctx, "benchmark completed", logs.MapFields{
		"size":        cfg.Bench.Size,
		"trials":      cfg.Bench.Trials,
		"seed":        cfg.Bench.Seed,
		"mean_height": report.MeanRandomHeight(),
	})

	return report, nil
}

func main() {
	cfg := &Config{}
	parser, err := config.Generate("bstbench", cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if err := parser.Parse(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		_ = parser.Usage()
		os.Exit(1)
	}

	logger := cfg.Logger.Logger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "benchmark failed", logs.MapFields{"err": err.Error()})
		stop()
		os.Exit(1)
	}
}

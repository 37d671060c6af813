package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/KaramelBytes/datalens-cli/internal/logging"
	"github.com/KaramelBytes/datalens-cli/internal/relate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	outputPath string

	// Analysis flags (override config if set)
	flagMaxDegree  int
	flagDegree     int
	flagMinkowskiP float64
	flagBins       int
	flagTrim       float64
	flagWelch      bool
	flagSweepAll   bool
	flagWorkers    int
	flagPrecision  int
	flagFormat     string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostics; user-facing output goes through fmt.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "datalens",
	Short: "DataLens CLI: descriptive statistics, transforms, relationships and similarity for numeric tables",
	Long: `DataLens computes per-column descriptive statistics, five rescaling transforms,
pairwise relationship matrices (F/t tests, covariance, correlation, R², Pearson,
polynomial regression) and distance/similarity metrics over CSV, TSV, XLSX and
JSON tables of continuous numeric data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.datalens/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug output")
	pf.StringVarP(&outputPath, "output", "o", "", "write output to this path instead of stdout")

	pf.IntVar(&flagMaxDegree, "max-degree", 0, "regression 1D: highest polynomial degree tried (overrides config)")
	pf.IntVar(&flagDegree, "degree", 0, "regression 2D/3D: polynomial degree (overrides config)")
	pf.Float64Var(&flagMinkowskiP, "minkowski-p", 0, "Minkowski distance order p (overrides config)")
	pf.IntVar(&flagBins, "bins", 0, "Jaccard: equal-width bins per column (overrides config)")
	pf.Float64Var(&flagTrim, "trim", 0, "trimmed mean: fraction cut from each end (overrides config)")
	pf.BoolVar(&flagWelch, "welch", false, "t-test: use Welch's unequal-variance form")
	pf.BoolVar(&flagSweepAll, "sweep-all", false, "regression 3D: evaluate every predictor triplet")
	pf.IntVar(&flagWorkers, "workers", 0, "concurrent analyses in report (0 = number of CPUs)")
	pf.IntVar(&flagPrecision, "precision", 0, "digits after the decimal point in md/csv output")
	pf.StringVar(&flagFormat, "format", "", "output format: md | csv | json (overrides config)")
}

func loadConfig() {
	logger = logging.OrNop(debug)

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("max-degree") {
		cfg.MaxDegree = flagMaxDegree
	}
	if f.Changed("degree") {
		cfg.RegressionDegree = flagDegree
	}
	if f.Changed("minkowski-p") {
		cfg.MinkowskiP = flagMinkowskiP
	}
	if f.Changed("bins") {
		cfg.JaccardBins = flagBins
	}
	if f.Changed("trim") {
		cfg.TrimFraction = flagTrim
	}
	if f.Changed("welch") {
		cfg.EqualVariance = !flagWelch
	}
	if f.Changed("sweep-all") && flagSweepAll {
		all := relate.Unbounded()
		cfg.SweepFirst, cfg.SweepSecond, cfg.SweepThird = all.First, all.Second, all.Third
	}
	if f.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if f.Changed("precision") {
		cfg.Precision = flagPrecision
	}
	if f.Changed("format") {
		cfg.OutputFormat = flagFormat
	}
	logger.Debug("config loaded", zap.String("file", cfgFile), zap.Any("params", cfg.Params()))
}

// settings returns the validated effective configuration.
func settings() (*cfgpkg.Global, error) {
	if cfg == nil {
		loadConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

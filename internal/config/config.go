package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/relate"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Regression
	MaxDegree        int `mapstructure:"max_degree" yaml:"max_degree"`
	RegressionDegree int `mapstructure:"regression_degree" yaml:"regression_degree"`
	SweepFirst       int `mapstructure:"sweep_first" yaml:"sweep_first"`
	SweepSecond      int `mapstructure:"sweep_second" yaml:"sweep_second"`
	SweepThird       int `mapstructure:"sweep_third" yaml:"sweep_third"`

	// Similarity
	MinkowskiP  float64 `mapstructure:"minkowski_p" yaml:"minkowski_p"`
	JaccardBins int     `mapstructure:"jaccard_bins" yaml:"jaccard_bins"`

	// Descriptive statistics and tests
	TrimFraction  float64 `mapstructure:"trim_fraction" yaml:"trim_fraction"`
	EqualVariance bool    `mapstructure:"equal_variance" yaml:"equal_variance"`

	// Execution and output
	Workers      int    `mapstructure:"workers" yaml:"workers"`
	Precision    int    `mapstructure:"precision" yaml:"precision"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
}

// Dir is the directory holding the default config file.
const Dir = ".datalens"

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, Dir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datalens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	p := analysis.DefaultParams()
	return &Global{
		MaxDegree:        p.MaxDegree,
		RegressionDegree: p.Degree,
		SweepFirst:       relate.DefaultSweepLimits.First,
		SweepSecond:      relate.DefaultSweepLimits.Second,
		SweepThird:       relate.DefaultSweepLimits.Third,
		MinkowskiP:       p.MinkowskiP,
		JaccardBins:      p.Bins,
		TrimFraction:     p.Trim,
		EqualVariance:    p.EqualVariance,
		Precision:        analysis.DefaultPrecision,
		OutputFormat:     "md",
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATALENS")
	v.AutomaticEnv()

	def := Defaults()
	v.SetDefault("max_degree", def.MaxDegree)
	v.SetDefault("regression_degree", def.RegressionDegree)
	v.SetDefault("sweep_first", def.SweepFirst)
	v.SetDefault("sweep_second", def.SweepSecond)
	v.SetDefault("sweep_third", def.SweepThird)
	v.SetDefault("minkowski_p", def.MinkowskiP)
	v.SetDefault("jaccard_bins", def.JaccardBins)
	v.SetDefault("trim_fraction", def.TrimFraction)
	v.SetDefault("equal_variance", def.EqualVariance)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("precision", def.Precision)
	v.SetDefault("output_format", def.OutputFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, Dir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; an explicit file that exists must parse
	if err := v.ReadInConfig(); err != nil && cfgFile != "" {
		if _, statErr := os.Stat(cfgFile); statErr == nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Params converts the configuration into analysis parameters.
func (c *Global) Params() analysis.Params {
	return analysis.Params{
		MaxDegree:     c.MaxDegree,
		Degree:        c.RegressionDegree,
		MinkowskiP:    c.MinkowskiP,
		Bins:          c.JaccardBins,
		Trim:          c.TrimFraction,
		EqualVariance: c.EqualVariance,
		Sweep:         relate.SweepLimits{First: c.SweepFirst, Second: c.SweepSecond, Third: c.SweepThird},
	}
}

// Validate checks every value a command could consume.
func (c *Global) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	switch c.OutputFormat {
	case "md", "csv", "json":
	default:
		return &dataset.UnknownNameError{Kind: "output format", Name: c.OutputFormat, Known: []string{"md", "csv", "json"}}
	}
	if c.Precision < 0 || c.Precision > 17 {
		return dataset.Invalid("precision", "must be in [0, 17], got %d", c.Precision)
	}
	if c.Workers < 0 {
		return dataset.Invalid("workers", "must be >= 0, got %d", c.Workers)
	}
	return nil
}

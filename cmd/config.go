package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "max_degree: %d\n", cfg.MaxDegree)
		fmt.Fprintf(out, "regression_degree: %d\n", cfg.RegressionDegree)
		fmt.Fprintf(out, "sweep_first: %d\n", cfg.SweepFirst)
		fmt.Fprintf(out, "sweep_second: %d\n", cfg.SweepSecond)
		fmt.Fprintf(out, "sweep_third: %d\n", cfg.SweepThird)
		fmt.Fprintf(out, "minkowski_p: %g\n", cfg.MinkowskiP)
		fmt.Fprintf(out, "jaccard_bins: %d\n", cfg.JaccardBins)
		fmt.Fprintf(out, "trim_fraction: %g\n", cfg.TrimFraction)
		fmt.Fprintf(out, "equal_variance: %t\n", cfg.EqualVariance)
		if cfg.Workers > 0 {
			fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
		} else {
			fmt.Fprintln(out, "workers: auto")
		}
		fmt.Fprintf(out, "precision: %d\n", cfg.Precision)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], strings.TrimSpace(args[1])
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		atoi := func() (int, error) {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("invalid int for %s: %v", key, val)
			}
			return i, nil
		}
		parseFloat := func() (float64, error) {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid float for %s: %v", key, val)
			}
			return f, nil
		}
		var err error
		switch key {
		case "max_degree":
			cfg.MaxDegree, err = atoi()
		case "regression_degree":
			cfg.RegressionDegree, err = atoi()
		case "sweep_first":
			cfg.SweepFirst, err = atoi()
		case "sweep_second":
			cfg.SweepSecond, err = atoi()
		case "sweep_third":
			cfg.SweepThird, err = atoi()
		case "minkowski_p":
			cfg.MinkowskiP, err = parseFloat()
		case "jaccard_bins":
			cfg.JaccardBins, err = atoi()
		case "trim_fraction":
			cfg.TrimFraction, err = parseFloat()
		case "equal_variance":
			b, perr := strconv.ParseBool(val)
			if perr != nil {
				return fmt.Errorf("invalid bool for equal_variance: %v", val)
			}
			cfg.EqualVariance = b
		case "workers":
			cfg.Workers, err = atoi()
		case "precision":
			cfg.Precision, err = atoi()
		case "output_format":
			cfg.OutputFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

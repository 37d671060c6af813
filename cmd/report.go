package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/KaramelBytes/datalens-cli/internal/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	repKinds    []string
	repOriginal bool
	repXLSX     bool
	repQuiet    bool
)

var reportCmd = &cobra.Command{
	Use:   "report <inputs...>",
	Short: "Run every analysis over each input and its transforms",
	Long: `Loads each input (globs allowed), computes all five transforms and runs every
analysis on the original data and each transform. Reports are printed, or
written to --output <dir> as <input>.report.<format>.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		kinds := analysis.Kinds
		if len(repKinds) > 0 {
			kinds = nil
			for _, name := range repKinds {
				k, err := analysis.ParseKind(name)
				if err != nil {
					return err
				}
				kinds = append(kinds, k)
			}
		}
		inputs := utils.ExpandInputs(args)
		if outputPath != "" {
			if err := os.MkdirAll(outputPath, 0o755); err != nil {
				return fmt.Errorf("mkdir output dir: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		total := len(inputs)
		for i, ref := range inputs {
			if !repQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(ref))
			}
			ws, err := openInput(ref)
			if err != nil {
				return err
			}
			variants, err := reportVariants(ws)
			if err != nil {
				return err
			}
			jobs := analysis.Plan(variants, kinds)
			b := &analysis.Batch{
				Params:  c.Params(),
				Workers: c.Workers,
				Log:     logger.With(zap.String("input", ref)),
				OnDone: func(done, n int, job analysis.Job) {
					logger.Debug("job done", zap.String("id", job.ID), zap.Int("done", done), zap.Int("total", n))
				},
			}
			results, err := b.Run(cmd.Context(), jobs)
			if err != nil {
				return fmt.Errorf("%s: %w", ref, err)
			}

			var body []byte
			switch c.OutputFormat {
			case "md":
				rep := analysis.NewReport(ref, ws.Dataset(), c.Params(), results)
				rep.Precision = c.Precision
				body = []byte(rep.Markdown())
			default:
				body, err = renderResults(c.OutputFormat, c.Precision, results...)
				if err != nil {
					return err
				}
			}

			if outputPath == "" {
				if _, err := out.Write(body); err != nil {
					return err
				}
				fmt.Fprintln(out)
			} else {
				path := filepath.Join(outputPath, utils.StemWithSuffix(ref, ".report."+c.OutputFormat))
				if err := utils.SafeWriteFile(path, body); err != nil {
					return err
				}
				if !repQuiet {
					fmt.Fprintf(out, "✓ Wrote report to %s\n", path)
				}
			}
			if repXLSX {
				dir := outputPath
				if dir == "" {
					dir = "."
				}
				path := filepath.Join(dir, utils.StemWithSuffix(ref, ".report.xlsx"))
				if err := analysis.WriteXLSX(path, results); err != nil {
					return err
				}
				if !repQuiet {
					fmt.Fprintf(out, "✓ Wrote workbook to %s\n", path)
				}
			}
		}
		return nil
	},
}

// reportVariants returns the original dataset followed by every transform,
// or only the original with --original-only.
func reportVariants(ws *workspace.Workspace) ([]analysis.Variant, error) {
	names := workspace.Variants()
	if repOriginal {
		names = names[:1]
	} else if err := ws.ComputeAll(); err != nil {
		return nil, err
	}
	out := make([]analysis.Variant, 0, len(names))
	for _, name := range names {
		ds, err := ws.Variant(name)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis.Variant{Name: name, Data: ds})
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringSliceVar(&repKinds, "kinds", nil,
		"comma-separated analyses to run (default all): "+strings.Join(analysis.Names(analysis.Kinds), ", "))
	reportCmd.Flags().BoolVar(&repOriginal, "original-only", false, "skip the transformed variants")
	reportCmd.Flags().BoolVar(&repXLSX, "xlsx", false, "also write an XLSX workbook with one sheet per table")
	reportCmd.Flags().BoolVar(&repQuiet, "quiet", false, "suppress progress and non-essential output")
	addInputFlags(reportCmd)
}

package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/parser"
	"github.com/KaramelBytes/datalens-cli/internal/transform"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/KaramelBytes/datalens-cli/internal/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Input flags shared by every command that reads a dataset.
var (
	inDelimiter  string
	inDecimal    string
	inThousands  string
	inSheetName  string
	inSheetIndex int
	inMaxRows    int
	inVariant    string
)

func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (by suffix if omitted)")
	c.Flags().StringVar(&inDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&inThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().StringVar(&inSheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&inSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().IntVar(&inMaxRows, "max-rows", 0, "maximum data rows to read (0 = unlimited)")
}

func addVariantFlag(c *cobra.Command) {
	c.Flags().StringVar(&inVariant, "variant", workspace.Original,
		"dataset variant to analyze: "+strings.Join(workspace.Variants(), " | "))
}

// inputOptions translates the input flags into parser options.
func inputOptions() (parser.Options, error) {
	opt := parser.DefaultOptions()
	opt.SheetName = inSheetName
	opt.SheetIndex = inSheetIndex
	if inMaxRows < 0 {
		return opt, fmt.Errorf("invalid --max-rows: %d (must be >= 0)", inMaxRows)
	}
	opt.MaxRows = inMaxRows
	switch inDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", inDelimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(inDecimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", inDecimal)
	}
	switch strings.ToLower(strings.TrimSpace(inThousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", inThousands)
	}
	return opt, nil
}

// openInput loads ref into a fresh workspace.
func openInput(ref string) (*workspace.Workspace, error) {
	opt, err := inputOptions()
	if err != nil {
		return nil, err
	}
	ds, err := parser.Load(ref, opt)
	if err != nil {
		return nil, err
	}
	ws := workspace.New(logger)
	if err := ws.Load(ds, ref); err != nil {
		return nil, err
	}
	return ws, nil
}

// loadVariant loads ref and returns the variant chosen with --variant.
func loadVariant(ref string) (*dataset.Dataset, string, error) {
	ws, err := openInput(ref)
	if err != nil {
		return nil, "", err
	}
	name := strings.ToLower(strings.TrimSpace(inVariant))
	if name == "" {
		name = workspace.Original
	}
	ds, err := ws.Variant(name)
	if err != nil {
		return nil, "", err
	}
	if k, err := transform.ParseKind(name); err == nil {
		name = k.String()
	}
	return ds, name, nil
}

// runSingle loads ref and runs one analysis on the selected variant.
func runSingle(cmd *cobra.Command, ref string, kind analysis.Kind) error {
	c, err := settings()
	if err != nil {
		return err
	}
	ds, variant, err := loadVariant(ref)
	if err != nil {
		return err
	}
	progress := func(done, total int) {
		logger.Debug("progress", zap.String("kind", kind.String()), zap.Int("done", done), zap.Int("total", total))
	}
	res, err := analysis.Run(cmd.Context(), ds, kind, c.Params(), progress)
	if err != nil {
		return err
	}
	res.Variant = variant
	logger.Debug("analysis finished", zap.String("id", res.ID), zap.String("kind", kind.String()),
		zap.Duration("elapsed", res.Elapsed))

	if isXLSX(outputPath) {
		if err := analysis.WriteXLSX(outputPath, []*analysis.Result{res}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", kind.Title(), outputPath)
		return nil
	}
	b, err := renderResults(c.OutputFormat, c.Precision, res)
	if err != nil {
		return err
	}
	return emit(cmd, b, kind.Title())
}

// renderResults formats results as md, csv or json.
func renderResults(format string, precision int, results ...*analysis.Result) ([]byte, error) {
	switch format {
	case "json":
		return analysis.MarshalJSON(results...)
	case "csv":
		var buf bytes.Buffer
		for i, res := range results {
			if i > 0 {
				buf.WriteString("\n")
			}
			if err := analysis.WriteCSV(&buf, res, precision); err != nil {
				return nil, err
			}
		}
		return buf.Bytes(), nil
	default:
		var b strings.Builder
		for i, res := range results {
			if i > 0 {
				b.WriteString("\n")
			}
			if len(results) > 1 {
				fmt.Fprintf(&b, "[%s: %s]\n", strings.ToUpper(res.Variant), strings.ToUpper(res.Kind.Title()))
			}
			b.WriteString(res.Markdown(precision))
		}
		return []byte(b.String()), nil
	}
}

// emit writes b to --output when set, else to stdout.
func emit(cmd *cobra.Command, b []byte, what string) error {
	if outputPath == "" {
		out := cmd.OutOrStdout()
		if _, err := out.Write(b); err != nil {
			return err
		}
		if len(b) > 0 && b[len(b)-1] != '\n' {
			fmt.Fprintln(out)
		}
		return nil
	}
	if err := utils.SafeWriteFile(outputPath, b); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", what, outputPath)
	return nil
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/transform"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	trKind string
	trAll  bool
)

var transformCmd = &cobra.Command{
	Use:   "transform <input>",
	Short: "Rescale every column with one transform (or all of them)",
	Long: `Applies a column transform and writes the resulting dataset.

Transforms: ` + strings.Join(transform.Names(), ", ") + `.

With --all and --output, the output path is a directory receiving one file per
transform named <input>.<transform>.<format>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trAll == (trKind != "") {
			return fmt.Errorf("specify exactly one of --kind or --all")
		}
		c, err := settings()
		if err != nil {
			return err
		}
		ws, err := openInput(args[0])
		if err != nil {
			return err
		}
		if !trAll {
			k, err := transform.ParseKind(trKind)
			if err != nil {
				return err
			}
			out, err := ws.Transform(k)
			if err != nil {
				return err
			}
			if isXLSX(outputPath) {
				if err := analysis.WriteDatasetXLSX(outputPath, k.String(), out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", k.Title(), outputPath)
				return nil
			}
			b, err := renderDataset(c.OutputFormat, c.Precision, k.Title(), out)
			if err != nil {
				return err
			}
			return emit(cmd, b, k.Title())
		}

		if err := ws.ComputeAll(); err != nil {
			return err
		}
		if outputPath != "" {
			if err := os.MkdirAll(outputPath, 0o755); err != nil {
				return fmt.Errorf("mkdir output dir: %w", err)
			}
			for _, k := range transform.Kinds {
				out, err := ws.Transform(k)
				if err != nil {
					return err
				}
				b, err := renderDataset(c.OutputFormat, c.Precision, k.Title(), out)
				if err != nil {
					return err
				}
				path := filepath.Join(outputPath, utils.StemWithSuffix(args[0], "."+k.String()+"."+c.OutputFormat))
				if err := utils.SafeWriteFile(path, b); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", k.Title(), path)
			}
			return nil
		}

		switch c.OutputFormat {
		case "csv":
			return fmt.Errorf("--all with csv needs --output <dir> (one file per transform)")
		case "json":
			all := make(map[string]json.RawMessage, len(transform.Kinds))
			for _, k := range transform.Kinds {
				out, _ := ws.Transform(k)
				b, err := analysis.MarshalDatasetJSON(out)
				if err != nil {
					return err
				}
				all[k.String()] = b
			}
			b, err := utils.PrettyJSON(all)
			if err != nil {
				return err
			}
			return emit(cmd, b, "transforms")
		default:
			var b strings.Builder
			for i, k := range transform.Kinds {
				out, _ := ws.Transform(k)
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "[%s]\n", strings.ToUpper(k.Title()))
				b.WriteString(analysis.DatasetGrid(k.Title(), out).Markdown(c.Precision))
			}
			return emit(cmd, []byte(b.String()), "transforms")
		}
	},
}

// renderDataset formats a dataset as md, csv or json.
func renderDataset(format string, precision int, title string, ds *dataset.Dataset) ([]byte, error) {
	switch format {
	case "csv":
		var buf bytes.Buffer
		if err := analysis.WriteDatasetCSV(&buf, ds); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "json":
		return analysis.MarshalDatasetJSON(ds)
	default:
		return []byte(analysis.DatasetGrid(title, ds).Markdown(precision)), nil
	}
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringVarP(&trKind, "kind", "k", "", "transform: "+strings.Join(transform.Names(), " | "))
	transformCmd.Flags().BoolVar(&trAll, "all", false, "apply every transform")
	addInputFlags(transformCmd)
}

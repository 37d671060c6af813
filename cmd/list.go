package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/generator"
	"github.com/KaramelBytes/datalens-cli/internal/parser"
	"github.com/KaramelBytes/datalens-cli/internal/transform"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:       "list <analyses|tests|metrics|transforms|methods|providers>",
	Short:     "List the names accepted by other commands",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"analyses", "tests", "metrics", "transforms", "methods", "providers"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch strings.ToLower(args[0]) {
		case "analyses":
			for _, k := range analysis.Kinds {
				fmt.Fprintf(out, "- %s: %s (%s)\n", k, k.Title(), k.Category())
			}
		case "tests":
			for _, k := range analysis.KindsIn(analysis.Relationship) {
				fmt.Fprintf(out, "- %s: %s\n", k, k.Title())
			}
		case "metrics":
			for _, k := range analysis.KindsIn(analysis.Similarity) {
				fmt.Fprintf(out, "- %s: %s\n", k, k.Title())
			}
		case "transforms":
			for _, k := range transform.Kinds {
				fmt.Fprintf(out, "- %s: %s\n", k, k.Title())
			}
		case "methods":
			for _, m := range generator.Methods {
				fmt.Fprintf(out, "- %s: %s\n", m, m.Title())
			}
		case "providers":
			for _, p := range parser.Providers() {
				fmt.Fprintf(out, "- %s\n", p)
			}
		default:
			return fmt.Errorf("unknown list %q (use one of: %s)", args[0], strings.Join(cmd.ValidArgs, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

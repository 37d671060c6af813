package cmd

import (
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	relTest   string
	simMetric string
)

var describeCmd = &cobra.Command{
	Use:   "describe <input>",
	Short: "Compute descriptive statistics for every column",
	Long: `Computes arithmetic, geometric, harmonic and trimmed means, standard deviation,
range, IQR, MAD, coefficient of variation, standard error, skewness and kurtosis
for each column.

<input> is a CSV/TSV/XLSX/JSON file or a provider reference such as sklearn:iris.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle(cmd, args[0], analysis.Describe)
	},
}

var relateCmd = &cobra.Command{
	Use:   "relate <input>",
	Short: "Compute a pairwise relationship matrix between columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := analysis.ParseKindIn(analysis.Relationship, relTest)
		if err != nil {
			return err
		}
		return runSingle(cmd, args[0], kind)
	},
}

var similarityCmd = &cobra.Command{
	Use:   "similarity <input>",
	Short: "Compute a pairwise distance or similarity matrix between columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := analysis.ParseKindIn(analysis.Similarity, simMetric)
		if err != nil {
			return err
		}
		return runSingle(cmd, args[0], kind)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(relateCmd)
	rootCmd.AddCommand(similarityCmd)

	relateCmd.Flags().StringVarP(&relTest, "test", "t", "",
		"relationship test: "+strings.Join(analysis.Names(analysis.KindsIn(analysis.Relationship)), " | "))
	_ = relateCmd.MarkFlagRequired("test")
	similarityCmd.Flags().StringVarP(&simMetric, "metric", "m", "",
		"metric: "+strings.Join(analysis.Names(analysis.KindsIn(analysis.Similarity)), " | "))
	_ = similarityCmd.MarkFlagRequired("metric")

	for _, c := range []*cobra.Command{describeCmd, relateCmd, similarityCmd} {
		addInputFlags(c)
		addVariantFlag(c)
	}
}

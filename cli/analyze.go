package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"clipmix/config"
	"clipmix/sequence"
)

const (
	defaultLength  = config.DefaultSequenceLength
	defaultSpacing = config.DefaultMinSpacing
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify a sequence request as SAFE, RISKY, or INFEASIBLE",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func init() {
	addSequenceFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	records, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	req := sequenceRequest(cmd)
	pool := sequence.Filter(records, req.Categories, req.Colors)

	report, err := sequence.Analyze(pool, req)
	if err != nil {
		return err
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report sequence.FeasibilityReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Classification:  %s\n", report.Classification)
	fmt.Fprintf(out, "Max safe length: %d\n", report.MaxSafeLength)
	if report.Reason != "" {
		fmt.Fprintf(out, "Reason:          %s\n", report.Reason)
	}

	cats := make([]string, 0, len(report.CategoryCounts))
	for c := range report.CategoryCounts {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	fmt.Fprintln(out, "Clips per category:")
	for _, c := range cats {
		fmt.Fprintf(out, "  %-20s %d\n", c, report.CategoryCounts[c])
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"clipmix/catalog"
	"clipmix/sequence"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a clip sequence",
	Long: `Generate builds a randomized clip sequence honoring the spacing
constraint and prints it, or writes it to a CSV with --out.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addSequenceFlags(generateCmd)
	generateCmd.Flags().StringP("out", "o", "", "write the sequence to this CSV file")
	generateCmd.Flags().Int64("seed", 0, "random seed for reproducible output")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	records, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	req := sequenceRequest(cmd)
	pool := sequence.Filter(records, req.Categories, req.Colors)

	var items []sequence.Item
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		items, err = sequence.GenerateSeeded(pool, req, seed)
	} else {
		items, err = sequence.Generate(pool, req)
	}
	if err != nil {
		var infeasible *sequence.InfeasibleError
		if errors.As(err, &infeasible) {
			printReport(cmd, infeasible.Report)
		}
		return err
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := catalog.WriteSequence(outPath, items); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d items to %s\n", len(items), outPath)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, item := range items {
		fmt.Fprintf(out, "%3d. %-30s %s\n", item.ItemNumber, item.Record.Name, item.Record.Category)
	}
	return nil
}

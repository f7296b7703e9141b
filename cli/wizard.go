package cli

import (
	"github.com/spf13/cobra"

	"clipmix/tui"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive sequence wizard",
	Args:  cobra.NoArgs,
	RunE:  runWizard,
}

func init() {
	wizardCmd.Flags().StringP("out", "o", "sequence.csv", "CSV file the wizard saves sequences to")
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	return tui.Run(catalogPath(cmd), outPath)
}

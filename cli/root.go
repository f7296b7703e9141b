// Package cli implements the clipmix command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"clipmix/catalog"
	"clipmix/sequence"
)

var rootCmd = &cobra.Command{
	Use:   "clipmix",
	Short: "Constraint-aware clip sequence planner and renderer",
	Long: `Clipmix plans sequences of video clips from a catalog, keeping clips of
the same category spaced apart, and renders the result into a single video.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .clipmix.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog CSV file (default catalog.csv)")
}

func initConfig() {
	_ = godotenv.Load()

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".clipmix")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("CLIPMIX")
	viper.AutomaticEnv()
	viper.SetDefault("catalog", "catalog.csv")

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// catalogPath resolves the catalog file: flag first, then config/env.
func catalogPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("catalog"); path != "" {
		return path
	}
	return viper.GetString("catalog")
}

func loadCatalog(cmd *cobra.Command) ([]sequence.Record, error) {
	path := catalogPath(cmd)
	records, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return records, nil
}

// addSequenceFlags registers the flags shared by analyze, generate, and
// render.
func addSequenceFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("length", "n", 0, "sequence length (default from config)")
	cmd.Flags().IntP("spacing", "s", -1, "minimum spacing between same-category clips")
	cmd.Flags().StringSlice("categories", nil, "restrict to these categories")
	cmd.Flags().StringSlice("colors", nil, "restrict to these colors")
}

func sequenceRequest(cmd *cobra.Command) sequence.Request {
	length, _ := cmd.Flags().GetInt("length")
	spacing, _ := cmd.Flags().GetInt("spacing")
	categories, _ := cmd.Flags().GetStringSlice("categories")
	colors, _ := cmd.Flags().GetStringSlice("colors")

	if length == 0 {
		length = viper.GetInt("length")
	}
	if spacing < 0 {
		if viper.IsSet("spacing") {
			spacing = viper.GetInt("spacing")
		} else {
			spacing = defaultSpacing
		}
	}
	if length == 0 {
		length = defaultLength
	}

	return sequence.Request{
		Categories: categories,
		Colors:     colors,
		Length:     length,
		MinSpacing: spacing,
	}
}

package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "factscore",
	Short: "Fundamentals scorecards from reported financial facts",
	Long: `factscore computes Graham-style value and Buffett-style moat scorecards
from per-fiscal-year financial facts stored in PostgreSQL.

Usage:
  go run ./cmd/factscore [command]

Examples:
  go run ./cmd/factscore migrate
  go run ./cmd/factscore seed testdata/sample.json
  go run ./cmd/factscore score value 320193 --date 2024-06-30
  go run ./cmd/factscore batch moat
  go run ./cmd/factscore api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var verbose bool
var noColor bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "riskgen",
	Short: "Pre-delinquency dataset generator for risk-model development",
	Long: `A synthetic financial-behavior dataset generator.

This tool simulates a population of bank customers day by day over a
configurable horizon. Each customer belongs to a behavioral archetype
(stable, liquidity shock, overspending, savings depletion, income
instability) that shapes salary arrival, spending drift, withdrawals,
and EMI defaults, producing labeled risk trajectories for model training.

Tunable parameters are in internal/config/defaults.go - edit and recompile.

Example usage:
  riskgen generate --customers 1000 --days 180 --seed 42
  riskgen remap --input creditcard.csv --output ./data
  riskgen import --db "user:pass@tcp(host:3306)/risk"`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors and animations")

	// Silence usage on error - we'll print our own messages
	rootCmd.SilenceUsage = true

	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Verbose returns whether verbose mode is enabled
func Verbose() bool {
	return verbose
}

// Exit with code
func Exit(code int) {
	os.Exit(code)
}

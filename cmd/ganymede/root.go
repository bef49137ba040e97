package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede - admission-control gateway for chat-completion providers",
	Long: `Ganymede balances chat requests across multiple upstream models and
their API keys, enforcing per-model capacity limits and exposing live
load reporting.

It provides:
  - Weighted least-loaded selection across models and credentials
  - Concurrency and per-second admission limits
  - Streaming and non-streaming chat endpoints
  - Capacity and usage reporting`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate the configuration file without starting the server.

Examples:
  # Validate the default config
  ganymede validate

  # Validate a specific file
  ganymede validate --config /etc/ganymede/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}

		fmt.Printf("✓ Configuration valid (%d models enabled)\n", len(cfg.EnabledModels))
		for _, name := range cfg.EnabledModels {
			mc := cfg.Models[name]
			fmt.Printf("  - %s: strategy=%s keys=%d weight=%.1f\n",
				name, mc.Strategy, len(mc.APIKeys), mc.Weight)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/manager"
	"mercator-hq/ganymede/pkg/proxy/handlers"
	"mercator-hq/ganymede/pkg/server"
	"mercator-hq/ganymede/pkg/telemetry/logging"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
	"mercator-hq/ganymede/pkg/usage"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

The server balances chat requests across the enabled models, enforcing
each model's capacity limits, and serves the load reporting endpoints.

Examples:
  # Start with default config
  ganymede run

  # Start with custom config
  ganymede run --config /etc/ganymede/config.yaml

  # Override listen address
  ganymede run --listen 0.0.0.0:8080

  # Validate config without starting
  ganymede run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, nil)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Printf("✓ Configuration valid (%d models enabled)\n", len(cfg.EnabledModels))
		return nil
	}

	fmt.Printf("Ganymede v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)

	mgr, err := manager.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to build model registry: %w", err)
	}
	fmt.Printf("✓ Models registered (%d models)\n", len(mgr.Models()))

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics, nil)
		collector.RegisterCapacity(mgr)
		mgr.AddObserver(collector)
		fmt.Println("✓ Metrics enabled")
	}

	var usageReader handlers.UsageReader
	if cfg.Usage.Enabled {
		usageStore, err := usage.NewStore(cfg.Usage)
		if err != nil {
			return fmt.Errorf("failed to initialize usage store: %w", err)
		}
		defer usageStore.Close()
		mgr.AddObserver(usageStore)
		usageReader = usageStore

		retention, err := usage.NewRetention(usageStore, cfg.Usage.CleanupSchedule, cfg.Usage.Retention)
		if err != nil {
			return fmt.Errorf("failed to schedule usage retention: %w", err)
		}
		retention.Start()
		defer retention.Stop()
		fmt.Println("✓ Usage recording enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchWeights {
		watcher, err := manager.NewWeightWatcher(cfgFile, mgr)
		if err != nil {
			return fmt.Errorf("failed to start weight watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				slog.Error("weight watcher exited", "error", err)
			}
		}()
		defer watcher.Stop()
		fmt.Println("✓ Weight hot-reload enabled")
	}

	srv := server.New(cfg.Server, mgr, usageReader, collector)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	return srv.Start(ctx)
}

package config

import "time"

// Default values applied to unset fields before validation.
const (
	DefaultListenAddress   = "127.0.0.1:9000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultProviderTimeout = 60 * time.Second
	DefaultMaxIdleConns    = 32

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "ganymede"
	DefaultMetricsSubsystem = "gateway"

	DefaultUsageDBPath    = "./ganymede-usage.db"
	DefaultUsageRetention = 720 * time.Hour
	DefaultUsageSchedule  = "0 3 * * *"
)

// ApplyDefaults fills in default values for unset configuration fields.
// It is called by LoadConfig before validation.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = 3600
	}

	// Model defaults
	for name, mc := range cfg.Models {
		if mc.Weight == 0 {
			mc.Weight = 1.0
		}
		if mc.Strategy == "" {
			mc.Strategy = StrategyConcurrency
		}
		if mc.Provider.Timeout == 0 {
			mc.Provider.Timeout = DefaultProviderTimeout
		}
		if mc.Provider.MaxIdleConns == 0 {
			mc.Provider.MaxIdleConns = DefaultMaxIdleConns
		}
		cfg.Models[name] = mc
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		// Tuned for LLM request latencies
		cfg.Telemetry.Metrics.RequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}
	}

	// Usage defaults
	if cfg.Usage.DBPath == "" {
		cfg.Usage.DBPath = DefaultUsageDBPath
	}
	if cfg.Usage.Retention == 0 {
		cfg.Usage.Retention = DefaultUsageRetention
	}
	if cfg.Usage.CleanupSchedule == "" {
		cfg.Usage.CleanupSchedule = DefaultUsageSchedule
	}
}

package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Ganymede.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// EnabledModels is the ordered list of model names to register. The
	// order is significant: it fixes registration order and therefore the
	// deterministic tie-break used during selection.
	EnabledModels []string `yaml:"enabled_models"`

	// Models contains the per-model configuration sections.
	// Keys are model names (e.g. "zhipu", "spark").
	Models map[string]ModelConfig `yaml:"models"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Usage contains configuration for the request usage recorder.
	Usage UsageConfig `yaml:"usage"`

	// WatchWeights enables hot reload of model weights when the
	// configuration file changes. Structural changes (models, keys,
	// limits, credential weights) still require a restart.
	WatchWeights bool `yaml:"watch_weights"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:9000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Streaming responses are exempted via per-request deadlines.
	// Default: 0 (no timeout; streams are long-lived)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration for the HTTP surface.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is the list of allowed origins. ["*"] allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is the list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is the list of allowed request headers.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache age in seconds. Default: 3600
	MaxAge int `yaml:"max_age"`
}

// StrategyType selects the capacity strategy for a model.
type StrategyType string

const (
	// StrategyConcurrency caps in-flight requests per credential.
	StrategyConcurrency StrategyType = "concurrency"

	// StrategyQPS caps admissions per credential per sliding second.
	StrategyQPS StrategyType = "qps"
)

// ModelConfig contains configuration for a single upstream model.
type ModelConfig struct {
	// Provider contains the upstream endpoint settings.
	Provider UpstreamConfig `yaml:"provider"`

	// Weight is the model-level selection weight. Must be > 0.
	// Default: 1.0
	Weight float64 `yaml:"weight"`

	// SupportsTools marks the model as capable of tool calling.
	// Default: false
	SupportsTools bool `yaml:"supports_tools"`

	// Strategy selects the capacity strategy: "concurrency" or "qps".
	Strategy StrategyType `yaml:"strategy"`

	// MaxConcurrency is the per-credential in-flight cap.
	// Required when Strategy is "concurrency".
	MaxConcurrency int `yaml:"max_concurrency"`

	// MaxPerSecond is the per-credential admission cap within the trailing
	// one-second window. Required when Strategy is "qps".
	MaxPerSecond int `yaml:"max_per_second"`

	// APIKeys is the ordered credential list. Each entry is either a bare
	// key string or a {key, weight} mapping; weight defaults to 1.0.
	APIKeys []KeyConfig `yaml:"api_keys"`
}

// UpstreamConfig contains the endpoint settings for one provider.
type UpstreamConfig struct {
	// BaseURL is the provider's OpenAI-compatible API base URL.
	// Example: "https://open.bigmodel.cn/api/paas/v4"
	BaseURL string `yaml:"base_url"`

	// Model is the upstream model identifier sent on each request.
	// Example: "glm-4-flash"
	Model string `yaml:"model"`

	// Timeout is the wall-clock limit for a single provider call.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns bounds the connection pool. Default: 32
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// KeyConfig is one credential entry. In YAML it accepts either a bare
// string or a mapping:
//
//	api_keys:
//	  - "sk-plain"
//	  - key: "sk-weighted"
//	    weight: 2.0
type KeyConfig struct {
	// Key is the opaque API key.
	Key string `yaml:"key"`

	// Weight scales the credential's effective capacity. Default: 1.0.
	Weight float64 `yaml:"weight"`
}

// UnmarshalYAML accepts both the scalar and the mapping form and applies
// the default weight to entries that omit it.
func (k *KeyConfig) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		k.Key = value.Value
		k.Weight = 1.0
		return nil
	case yaml.MappingNode:
		// Weight is a pointer so an explicit zero reaches validation
		// instead of being mistaken for an omitted field.
		type rawKey struct {
			Key    string   `yaml:"key"`
			Weight *float64 `yaml:"weight"`
		}
		var raw rawKey
		if err := value.Decode(&raw); err != nil {
			return err
		}
		k.Key = raw.Key
		if raw.Weight == nil {
			k.Weight = 1.0
		} else {
			k.Weight = *raw.Weight
		}
		return nil
	default:
		return fmt.Errorf("api_keys entry must be a string or a {key, weight} mapping (line %d)", value.Line)
	}
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text". Default: "json"
	Format string `yaml:"format"`

	// RedactKeys masks API key material in log output. Default: false
	RedactKeys bool `yaml:"redact_keys"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served. Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "ganymede"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem segment. Default: "gateway"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets overrides the request latency histogram
	// buckets. Default: buckets tuned for LLM latencies (100ms-30s).
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// UsageConfig contains configuration for the request usage recorder.
type UsageConfig struct {
	// Enabled controls whether completed requests are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite database file path.
	// Default: "./ganymede-usage.db"
	DBPath string `yaml:"db_path"`

	// Retention is how long usage rows are kept. Default: 720h (30 days)
	Retention time.Duration `yaml:"retention"`

	// CleanupSchedule is the cron expression for the retention sweep.
	// Default: "0 3 * * *" (daily at 03:00)
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ganymede/pkg/config"
)

// Collector owns the Prometheus registry and every gateway metric.
//
// Metrics:
//   - <ns>_<sub>_requests_total: request count by model, key, status
//   - <ns>_<sub>_request_duration_seconds: request duration histogram by model
//   - <ns>_<sub>_system_load_percent: aggregate utilization gauge
//   - <ns>_<sub>_model_occupancy / _model_capacity: per-model gauges
//
// Buckets default to LLM request latencies; overridable in configuration.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates and registers the gateway metrics. If registry is
// nil a fresh one is used, keeping Go runtime metrics out of the scrape.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of chat requests processed",
			},
			[]string{"model", "key", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of chat requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"model", "streamed"},
		),
	}

	registry.MustRegister(c.requestsTotal, c.requestDuration)

	return c
}

// ObserveRequest records one finished request. It satisfies the manager's
// observer contract so the collector can be attached directly.
//
// Rejections that happen before selection carry no model; they are counted
// under model "none" so saturation is still visible on the dashboard.
func (c *Collector) ObserveRequest(model, key, status string, duration time.Duration, streamed bool) {
	if !c.config.Enabled {
		return
	}
	if model == "" {
		model, key = "none", "none"
	}
	c.requestsTotal.WithLabelValues(model, key, status).Inc()
	c.requestDuration.WithLabelValues(model, boolLabel(streamed)).Observe(duration.Seconds())
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

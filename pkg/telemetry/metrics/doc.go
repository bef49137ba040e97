// Package metrics provides Prometheus instrumentation for the gateway.
//
// Request counters and duration histograms are fed through the manager's
// observer hook; capacity gauges are collected live from the model
// registry at scrape time.
package metrics

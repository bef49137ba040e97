package manager

import (
	"mercator-hq/ganymede/pkg/balancer"
)

// CapacityTotals sums capacity by variant across the whole registry.
type CapacityTotals struct {
	// Concurrency is the summed slot count of concurrency-limited models.
	Concurrency int `json:"concurrency"`

	// QPS is the summed per-second admission limit of rate-limited models.
	QPS int `json:"qps"`
}

// SystemCapacityReport is the full capacity snapshot: variant totals plus
// one detailed report per registered model.
type SystemCapacityReport struct {
	Totals CapacityTotals             `json:"totals"`
	Models map[string]balancer.Report `json:"models"`
}

// KeyLoadReport describes one credential's standing inside its model.
type KeyLoadReport struct {
	Model   string  `json:"model"`
	Key     string  `json:"key"`
	Weight  float64 `json:"weight"`
	Current int     `json:"current"`
	Max     int     `json:"max"`
}

// SystemLoad returns aggregate utilization as a percentage:
// 100 * sum(current) / sum(max) across every model, mixing variants in one
// figure. Zero total capacity reports zero load.
func (m *Manager) SystemLoad() float64 {
	var current, max int
	for _, model := range m.models {
		c, x := model.CapacityInfo()
		current += c
		max += x
	}
	if max == 0 {
		return 0
	}
	return 100 * float64(current) / float64(max)
}

// SystemCapacity returns the full capacity snapshot. The snapshot is
// assembled per model without a global lock, so concurrent admissions may
// land between per-model reads.
func (m *Manager) SystemCapacity() SystemCapacityReport {
	report := SystemCapacityReport{
		Models: make(map[string]balancer.Report, len(m.models)),
	}
	for _, model := range m.models {
		r := model.CapacityReport()
		switch r.Type {
		case balancer.CapacityConcurrency:
			report.Totals.Concurrency += r.Max
		case balancer.CapacityQPS:
			report.Totals.QPS += r.Max
		}
		report.Models[model.Name()] = r
	}
	return report
}

// ModelCapacity returns the capacity report for one model, or UnknownModel.
func (m *Manager) ModelCapacity(name string) (balancer.Report, error) {
	model, ok := m.byName[name]
	if !ok {
		return balancer.Report{}, &balancer.UnknownModelError{Model: name}
	}
	return model.CapacityReport(), nil
}

// KeyLoad returns one credential's standing, or UnknownModel /
// UnknownCredential when either half of the address does not resolve.
func (m *Manager) KeyLoad(modelName, key string) (KeyLoadReport, error) {
	model, ok := m.byName[modelName]
	if !ok {
		return KeyLoadReport{}, &balancer.UnknownModelError{Model: modelName}
	}
	cred, ok := model.Credential(key)
	if !ok {
		return KeyLoadReport{}, &balancer.UnknownCredentialError{Model: modelName, Key: key}
	}
	// CapacityInfo totals across the credential set; the report carries the
	// single-credential maximum.
	_, max := model.CapacityInfo()
	return KeyLoadReport{
		Model:   modelName,
		Key:     cred.Key,
		Weight:  cred.Weight,
		Current: model.Occupancy(key),
		Max:     max / len(model.Credentials()),
	}, nil
}

package balancer

import "sync"

// Model wraps one upstream chat-completion service: a capacity strategy
// instance, the weighted credential set it governs, a model-level weight,
// and a tool-calling capability flag.
//
// Models are constructed once at startup and live for the process lifetime;
// only the weights may change afterwards (re-validated on mutation).
type Model struct {
	name          string
	supportsTools bool
	credentials   []Credential
	strategy      CapacityStrategy

	// weightMu guards weight, which the reload watcher may mutate while
	// selections read it.
	weightMu sync.RWMutex
	weight   float64
}

// KeyReport describes one credential's current standing for reporting.
type KeyReport struct {
	// Key is the credential identifier.
	Key string `json:"key"`

	// Weight is the credential's configured weight.
	Weight float64 `json:"weight"`

	// Current is the credential's current occupancy.
	Current int `json:"current"`
}

// Report is the weighted introspection view of a model, consumed by the
// reporting layer only. Selection reads straight from the strategy.
type Report struct {
	// Type is the capacity variant tag ("concurrency" or "qps").
	Type CapacityType `json:"type"`

	// Current is the summed occupancy across the model's credentials.
	Current int `json:"current"`

	// Max is the model's total capacity.
	Max int `json:"max"`

	// Weight is the model-level weight.
	Weight float64 `json:"weight"`

	// Keys lists the per-credential standing in configuration order.
	Keys []KeyReport `json:"keys"`
}

// NewModel creates a model wrapping the given strategy and credentials.
//
// It fails with InvalidConfiguration if the weight is non-positive, the
// credential list is empty or contains a duplicate or invalid entry, or the
// strategy is nil.
func NewModel(name string, weight float64, supportsTools bool, credentials []Credential, strategy CapacityStrategy) (*Model, error) {
	if name == "" {
		return nil, &InvalidConfigurationError{Field: "name", Reason: "must not be empty"}
	}
	if weight <= 0 {
		return nil, &InvalidConfigurationError{Field: "weight", Reason: "model weight must be positive"}
	}
	if len(credentials) == 0 {
		return nil, &InvalidConfigurationError{Field: "api_keys", Reason: "at least one credential is required"}
	}
	if strategy == nil {
		return nil, &InvalidConfigurationError{Field: "strategy", Reason: "capacity strategy is required"}
	}

	seen := make(map[string]bool, len(credentials))
	for _, c := range credentials {
		if c.Key == "" {
			return nil, &InvalidConfigurationError{Field: "api_keys", Reason: "credential key must not be empty"}
		}
		if c.Weight <= 0 {
			return nil, &InvalidConfigurationError{Field: "api_keys", Reason: "credential weight must be positive"}
		}
		if seen[c.Key] {
			return nil, &InvalidConfigurationError{Field: "api_keys", Reason: "duplicate credential key " + c.Key}
		}
		seen[c.Key] = true
	}

	return &Model{
		name:          name,
		weight:        weight,
		supportsTools: supportsTools,
		credentials:   credentials,
		strategy:      strategy,
	}, nil
}

// Name returns the model's registered name.
func (m *Model) Name() string {
	return m.name
}

// Weight returns the model-level weight.
func (m *Model) Weight() float64 {
	m.weightMu.RLock()
	defer m.weightMu.RUnlock()
	return m.weight
}

// SetWeight replaces the model-level weight, rejecting non-positive values
// with InvalidConfiguration.
func (m *Model) SetWeight(weight float64) error {
	if weight <= 0 {
		return &InvalidConfigurationError{Field: "weight", Reason: "model weight must be positive"}
	}

	m.weightMu.Lock()
	defer m.weightMu.Unlock()
	m.weight = weight
	return nil
}

// SupportsTools reports whether the model can serve tool-calling requests.
func (m *Model) SupportsTools() bool {
	return m.supportsTools
}

// Credentials returns the model's credential set in configuration order.
func (m *Model) Credentials() []Credential {
	return m.credentials
}

// Credential looks up a credential by key.
func (m *Model) Credential(key string) (Credential, bool) {
	for _, c := range m.credentials {
		if c.Key == key {
			return c, true
		}
	}
	return Credential{}, false
}

// Strategy returns the model's capacity strategy.
func (m *Model) Strategy() CapacityStrategy {
	return m.strategy
}

// AvailableCredentials returns the credentials currently under their limit.
func (m *Model) AvailableCredentials() []Credential {
	return m.strategy.AvailableCredentials()
}

// LoadFactor returns the credential's current load factor.
func (m *Model) LoadFactor(key string) float64 {
	return m.strategy.LoadFactor(key)
}

// Occupancy returns the credential's current occupancy.
func (m *Model) Occupancy(key string) int {
	return m.strategy.Occupancy(key)
}

// CapacityInfo returns the model's summed occupancy and total capacity.
func (m *Model) CapacityInfo() (current, max int) {
	return m.strategy.CapacityInfo()
}

// Type returns the capacity variant tag of the model's strategy.
func (m *Model) Type() CapacityType {
	return m.strategy.Type()
}

// CapacityReport builds the weighted introspection view of the model.
func (m *Model) CapacityReport() Report {
	current, max := m.strategy.CapacityInfo()

	keys := make([]KeyReport, 0, len(m.credentials))
	for _, c := range m.credentials {
		keys = append(keys, KeyReport{
			Key:     c.Key,
			Weight:  c.Weight,
			Current: m.strategy.Occupancy(c.Key),
		})
	}

	return Report{
		Type:    m.strategy.Type(),
		Current: current,
		Max:     max,
		Weight:  m.Weight(),
		Keys:    keys,
	}
}

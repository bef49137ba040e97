package balancer

import (
	"errors"
	"testing"
)

func newTestModel(t *testing.T, name string, weight float64, supportsTools bool, creds []Credential, maxConcurrency int) *Model {
	t.Helper()
	strategy, err := NewConcurrencyStrategy(creds, maxConcurrency)
	if err != nil {
		t.Fatalf("NewConcurrencyStrategy() error = %v", err)
	}
	m, err := NewModel(name, weight, supportsTools, creds, strategy)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func TestNewModel_Validation(t *testing.T) {
	creds := testCredentials("k1")
	strategy, err := NewConcurrencyStrategy(creds, 1)
	if err != nil {
		t.Fatalf("NewConcurrencyStrategy() error = %v", err)
	}

	tests := []struct {
		name        string
		modelName   string
		weight      float64
		credentials []Credential
		strategy    CapacityStrategy
		wantErr     bool
	}{
		{name: "valid", modelName: "glm", weight: 1.0, credentials: creds, strategy: strategy, wantErr: false},
		{name: "fractional weight", modelName: "glm", weight: 0.5, credentials: creds, strategy: strategy, wantErr: false},
		{name: "empty name", modelName: "", weight: 1.0, credentials: creds, strategy: strategy, wantErr: true},
		{name: "zero weight", modelName: "glm", weight: 0, credentials: creds, strategy: strategy, wantErr: true},
		{name: "negative weight", modelName: "glm", weight: -2, credentials: creds, strategy: strategy, wantErr: true},
		{name: "no credentials", modelName: "glm", weight: 1.0, credentials: nil, strategy: strategy, wantErr: true},
		{name: "nil strategy", modelName: "glm", weight: 1.0, credentials: creds, strategy: nil, wantErr: true},
		{
			name:        "zero credential weight",
			modelName:   "glm",
			weight:      1.0,
			credentials: []Credential{{Key: "k1", Weight: 0}},
			strategy:    strategy,
			wantErr:     true,
		},
		{
			name:        "duplicate credential key",
			modelName:   "glm",
			weight:      1.0,
			credentials: []Credential{{Key: "k1", Weight: 1}, {Key: "k1", Weight: 2}},
			strategy:    strategy,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.modelName, tt.weight, false, tt.credentials, tt.strategy)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error should match ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestModel_SetWeight(t *testing.T) {
	m := newTestModel(t, "glm", 1.0, false, testCredentials("k1"), 1)

	if err := m.SetWeight(2.5); err != nil {
		t.Fatalf("SetWeight(2.5) error = %v", err)
	}
	if got := m.Weight(); got != 2.5 {
		t.Errorf("Weight() = %v, want 2.5", got)
	}

	// Mutation-time validation mirrors construction-time validation.
	if err := m.SetWeight(0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("SetWeight(0) error = %v, want ErrInvalidConfiguration", err)
	}
	if err := m.SetWeight(-1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("SetWeight(-1) error = %v, want ErrInvalidConfiguration", err)
	}

	// A rejected mutation leaves the previous weight in place.
	if got := m.Weight(); got != 2.5 {
		t.Errorf("Weight() after rejected SetWeight = %v, want 2.5", got)
	}
}

func TestModel_Delegation(t *testing.T) {
	m := newTestModel(t, "glm", 1.0, true, testCredentials("k1", "k2"), 2)

	m.Strategy().Track("k1")

	if got := m.Occupancy("k1"); got != 1 {
		t.Errorf("Occupancy(k1) = %d, want 1", got)
	}
	if got := m.LoadFactor("k1"); got != 0.5 {
		t.Errorf("LoadFactor(k1) = %v, want 0.5", got)
	}

	current, max := m.CapacityInfo()
	if current != 1 || max != 4 {
		t.Errorf("CapacityInfo() = (%d, %d), want (1, 4)", current, max)
	}

	if got := m.Type(); got != CapacityConcurrency {
		t.Errorf("Type() = %q, want %q", got, CapacityConcurrency)
	}
	if got := len(m.AvailableCredentials()); got != 2 {
		t.Errorf("AvailableCredentials() length = %d, want 2", got)
	}
}

func TestModel_CredentialLookup(t *testing.T) {
	creds := []Credential{{Key: "k1", Weight: 1.5}, {Key: "k2", Weight: 1.0}}
	m := newTestModel(t, "glm", 1.0, false, creds, 1)

	c, ok := m.Credential("k1")
	if !ok || c.Weight != 1.5 {
		t.Errorf("Credential(k1) = (%v, %v), want weight 1.5", c, ok)
	}

	if _, ok := m.Credential("missing"); ok {
		t.Error("Credential(missing) found, want not found")
	}
}

func TestModel_CapacityReport(t *testing.T) {
	creds := []Credential{{Key: "k1", Weight: 2.0}, {Key: "k2", Weight: 1.0}}
	m := newTestModel(t, "glm", 3.0, false, creds, 2)

	m.Strategy().Track("k2")

	report := m.CapacityReport()
	if report.Type != CapacityConcurrency {
		t.Errorf("report.Type = %q, want %q", report.Type, CapacityConcurrency)
	}
	if report.Current != 1 || report.Max != 4 {
		t.Errorf("report current/max = (%d, %d), want (1, 4)", report.Current, report.Max)
	}
	if report.Weight != 3.0 {
		t.Errorf("report.Weight = %v, want 3.0", report.Weight)
	}
	if len(report.Keys) != 2 {
		t.Fatalf("report.Keys length = %d, want 2", len(report.Keys))
	}

	// Keys come back in configuration order with live occupancy.
	if report.Keys[0].Key != "k1" || report.Keys[0].Weight != 2.0 || report.Keys[0].Current != 0 {
		t.Errorf("report.Keys[0] = %+v, want {k1 2 0}", report.Keys[0])
	}
	if report.Keys[1].Key != "k2" || report.Keys[1].Current != 1 {
		t.Errorf("report.Keys[1] = %+v, want {k2 1 1}", report.Keys[1])
	}
}

func TestNewCredential(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		weight  float64
		wantErr bool
	}{
		{name: "valid", key: "sk-abc", weight: 1.0, wantErr: false},
		{name: "empty key", key: "", weight: 1.0, wantErr: true},
		{name: "zero weight", key: "sk-abc", weight: 0, wantErr: true},
		{name: "negative weight", key: "sk-abc", weight: -0.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCredential(tt.key, tt.weight)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCredential() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error should match ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

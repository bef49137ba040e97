package balancer

import (
	"errors"
	"sync"
	"testing"
)

func testCredentials(keys ...string) []Credential {
	creds := make([]Credential, 0, len(keys))
	for _, k := range keys {
		creds = append(creds, Credential{Key: k, Weight: 1.0})
	}
	return creds
}

func TestNewConcurrencyStrategy(t *testing.T) {
	tests := []struct {
		name           string
		maxConcurrency int
		wantErr        bool
	}{
		{name: "positive limit", maxConcurrency: 10, wantErr: false},
		{name: "zero limit", maxConcurrency: 0, wantErr: true},
		{name: "negative limit", maxConcurrency: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConcurrencyStrategy(testCredentials("k1"), tt.maxConcurrency)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewConcurrencyStrategy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error should match ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestConcurrencyStrategy_TrackLimit(t *testing.T) {
	const max = 3

	s, err := NewConcurrencyStrategy(testCredentials("k1"), max)
	if err != nil {
		t.Fatalf("NewConcurrencyStrategy() error = %v", err)
	}

	// Exactly max admissions succeed.
	for i := 0; i < max; i++ {
		if !s.Track("k1") {
			t.Fatalf("Track() call %d = false, want true", i+1)
		}
	}

	// The (max+1)-th is rejected.
	if s.Track("k1") {
		t.Error("Track() beyond limit = true, want false")
	}

	// One release frees one slot.
	s.Release("k1")
	if !s.Track("k1") {
		t.Error("Track() after Release() = false, want true")
	}
}

func TestConcurrencyStrategy_ReleaseFloorsAtZero(t *testing.T) {
	s, err := NewConcurrencyStrategy(testCredentials("k1"), 2)
	if err != nil {
		t.Fatalf("NewConcurrencyStrategy() error = %v", err)
	}

	// Double release must not drive the counter negative.
	s.Release("k1")
	s.Release("k1")

	if got := s.Occupancy("k1"); got != 0 {
		t.Errorf("Occupancy() = %d, want 0", got)
	}

	current, max := s.CapacityInfo()
	if current != 0 || max != 2 {
		t.Errorf("CapacityInfo() = (%d, %d), want (0, 2)", current, max)
	}
}

func TestConcurrencyStrategy_CapacityInfo(t *testing.T) {
	s, err := NewConcurrencyStrategy(testCredentials("k1", "k2"), 5)
	if err != nil {
		t.Fatalf("NewConcurrencyStrategy() error = %v", err)
	}

	s.Track("k1")
	s.Track("k1")
	s.Track("k2")

	current, max := s.CapacityInfo()
	if current != 3 {
		t.Errorf("current = %d, want 3", current)
	}
	if max != 10 {
		t.Errorf("max = %d, want 10", max)
	}

	if got := s.LoadFactor("k1"); got != 0.4 {
		t.Errorf("LoadFactor(k1) = %v, want 0.4", got)
	}
}

func TestConcurrencyStrategy_AvailableCredentials(t *testing.T) {
	s, err := NewConcurrencyStrategy(testCredentials("k1", "k2"), 1)
	if err != nil {
		t.Fatalf("NewConcurrencyStrategy() error = %v", err)
	}

	s.Track("k1")

	available := s.AvailableCredentials()
	if len(available) != 1 || available[0].Key != "k2" {
		t.Errorf("AvailableCredentials() = %v, want [k2]", available)
	}

	s.Track("k2")
	if got := s.AvailableCredentials(); len(got) != 0 {
		t.Errorf("AvailableCredentials() with all saturated = %v, want empty", got)
	}
}

func TestConcurrencyStrategy_UnknownKey(t *testing.T) {
	s, err := NewConcurrencyStrategy(testCredentials("k1"), 1)
	if err != nil {
		t.Fatalf("NewConcurrencyStrategy() error = %v", err)
	}

	if s.Track("missing") {
		t.Error("Track(unknown) = true, want false")
	}
	if got := s.Occupancy("missing"); got != 0 {
		t.Errorf("Occupancy(unknown) = %d, want 0", got)
	}
}

// TestConcurrencyStrategy_ConcurrentAdmission hammers one credential from
// many goroutines and verifies the limit is never exceeded.
func TestConcurrencyStrategy_ConcurrentAdmission(t *testing.T) {
	const (
		max        = 8
		goroutines = 64
	)

	s, err := NewConcurrencyStrategy(testCredentials("k1"), max)
	if err != nil {
		t.Fatalf("NewConcurrencyStrategy() error = %v", err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Track("k1") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != max {
		t.Errorf("admitted = %d, want exactly %d", admitted, max)
	}

	current, _ := s.CapacityInfo()
	if current != max {
		t.Errorf("CapacityInfo() current = %d, want %d", current, max)
	}
}

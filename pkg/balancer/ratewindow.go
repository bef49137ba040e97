package balancer

import (
	"sync"
	"time"
)

// rateWindow is the trailing interval over which admissions are counted.
// The window slides continuously: it is recomputed relative to "now" on
// every check rather than reset at fixed boundaries, so bursts are smoothed
// instead of spiking at bucket edges.
const rateWindow = time.Second

// RateWindowStrategy caps the number of requests admitted per credential
// within the trailing one-second window.
//
// Each credential owns an ordered sequence of admission timestamps and its
// own mutex. Track prunes timestamps older than the window, then admits iff
// the remaining count is below the maximum, appending "now" on success.
// Release is a no-op - occupancy expires on its own.
type RateWindowStrategy struct {
	credentials  []Credential
	maxPerWindow int
	windows      map[string]*admissionWindow

	// now is the clock source; replaceable in tests.
	now func() time.Time
}

// admissionWindow is the per-credential slot: one lock, one ordered
// timestamp sequence. Timestamps are kept in increasing order and pruned
// from the front.
type admissionWindow struct {
	mu    sync.Mutex
	times []time.Time
}

// pruneLocked drops timestamps strictly older than the window; an admission
// aged exactly one window still counts. Caller must hold the window's lock.
func (w *admissionWindow) pruneLocked(now time.Time) {
	cutoff := now.Add(-rateWindow)
	i := 0
	for i < len(w.times) && w.times[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		w.times = w.times[i:]
	}
}

// NewRateWindowStrategy creates a sliding-window rate strategy sized to the
// given credential list. maxPerWindow must be positive.
func NewRateWindowStrategy(credentials []Credential, maxPerWindow int) (*RateWindowStrategy, error) {
	if maxPerWindow <= 0 {
		return nil, &InvalidConfigurationError{
			Field:  "max_per_second",
			Reason: "must be positive",
		}
	}

	windows := make(map[string]*admissionWindow, len(credentials))
	for _, c := range credentials {
		windows[c.Key] = &admissionWindow{}
	}

	return &RateWindowStrategy{
		credentials:  credentials,
		maxPerWindow: maxPerWindow,
		windows:      windows,
		now:          time.Now,
	}, nil
}

// Track prunes expired admissions, then admits iff the credential has seen
// fewer than maxPerWindow admissions within the trailing window.
func (s *RateWindowStrategy) Track(key string) bool {
	w, ok := s.windows[key]
	if !ok {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := s.now()
	w.pruneLocked(now)
	if len(w.times) < s.maxPerWindow {
		w.times = append(w.times, now)
		return true
	}
	return false
}

// Release is a no-op: admissions expire when they age past the window.
func (s *RateWindowStrategy) Release(key string) {}

// AvailableCredentials prunes each credential's window against "now" and
// returns those still under the limit, in configuration order.
func (s *RateWindowStrategy) AvailableCredentials() []Credential {
	now := s.now()
	available := make([]Credential, 0, len(s.credentials))
	for _, cred := range s.credentials {
		w := s.windows[cred.Key]
		w.mu.Lock()
		w.pruneLocked(now)
		under := len(w.times) < s.maxPerWindow
		w.mu.Unlock()
		if under {
			available = append(available, cred)
		}
	}
	return available
}

// LoadFactor returns the post-prune admission count divided by the
// per-credential maximum.
func (s *RateWindowStrategy) LoadFactor(key string) float64 {
	return float64(s.Occupancy(key)) / float64(s.maxPerWindow)
}

// Occupancy returns the number of admissions still inside the credential's
// trailing window.
func (s *RateWindowStrategy) Occupancy(key string) int {
	w, ok := s.windows[key]
	if !ok {
		return 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(s.now())
	return len(w.times)
}

// CapacityInfo returns the summed window occupancy and the total capacity.
func (s *RateWindowStrategy) CapacityInfo() (current, max int) {
	for _, cred := range s.credentials {
		current += s.Occupancy(cred.Key)
	}
	return current, len(s.credentials) * s.maxPerWindow
}

// Type returns the QPS capacity tag.
func (s *RateWindowStrategy) Type() CapacityType {
	return CapacityQPS
}

package balancer

import "sync"

// ConcurrencyStrategy caps the number of in-flight requests per credential.
//
// Each credential owns an integer counter and its own mutex. Track admits
// iff the counter is below the configured maximum, then increments; Release
// decrements, floored at zero to stay defensive against double-release.
type ConcurrencyStrategy struct {
	credentials    []Credential
	maxConcurrency int
	counters       map[string]*concurrencyCounter
}

// concurrencyCounter is the per-credential slot: one lock, one counter.
type concurrencyCounter struct {
	mu    sync.Mutex
	count int
}

// NewConcurrencyStrategy creates a concurrency strategy sized to the given
// credential list. maxConcurrency must be positive.
func NewConcurrencyStrategy(credentials []Credential, maxConcurrency int) (*ConcurrencyStrategy, error) {
	if maxConcurrency <= 0 {
		return nil, &InvalidConfigurationError{
			Field:  "max_concurrency",
			Reason: "must be positive",
		}
	}

	counters := make(map[string]*concurrencyCounter, len(credentials))
	for _, c := range credentials {
		counters[c.Key] = &concurrencyCounter{}
	}

	return &ConcurrencyStrategy{
		credentials:    credentials,
		maxConcurrency: maxConcurrency,
		counters:       counters,
	}, nil
}

// Track admits the request iff the credential's in-flight count is below
// the maximum, incrementing on success.
func (s *ConcurrencyStrategy) Track(key string) bool {
	c, ok := s.counters[key]
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count < s.maxConcurrency {
		c.count++
		return true
	}
	return false
}

// Release returns one in-flight slot, floored at zero.
func (s *ConcurrencyStrategy) Release(key string) {
	c, ok := s.counters[key]
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count > 0 {
		c.count--
	}
}

// AvailableCredentials returns the credentials with spare in-flight slots,
// in configuration order.
func (s *ConcurrencyStrategy) AvailableCredentials() []Credential {
	available := make([]Credential, 0, len(s.credentials))
	for _, cred := range s.credentials {
		if s.Occupancy(cred.Key) < s.maxConcurrency {
			available = append(available, cred)
		}
	}
	return available
}

// LoadFactor returns in-flight count divided by the per-credential maximum.
func (s *ConcurrencyStrategy) LoadFactor(key string) float64 {
	return float64(s.Occupancy(key)) / float64(s.maxConcurrency)
}

// Occupancy returns the credential's current in-flight count.
func (s *ConcurrencyStrategy) Occupancy(key string) int {
	c, ok := s.counters[key]
	if !ok {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// CapacityInfo returns the summed in-flight count and the total capacity.
func (s *ConcurrencyStrategy) CapacityInfo() (current, max int) {
	for _, cred := range s.credentials {
		current += s.Occupancy(cred.Key)
	}
	return current, len(s.credentials) * s.maxConcurrency
}

// Type returns the concurrency capacity tag.
func (s *ConcurrencyStrategy) Type() CapacityType {
	return CapacityConcurrency
}

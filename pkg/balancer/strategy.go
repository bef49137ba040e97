package balancer

// CapacityType identifies which capacity strategy variant is in use.
// It is used for reporting only, never for selection math.
type CapacityType string

const (
	// CapacityConcurrency caps the number of in-flight requests per credential.
	CapacityConcurrency CapacityType = "concurrency"

	// CapacityQPS caps the number of requests admitted per credential within
	// a trailing one-second window.
	CapacityQPS CapacityType = "qps"
)

// CapacityStrategy is the per-credential admission/release primitive owned
// by exactly one Model. The two variants are ConcurrencyStrategy and
// RateWindowStrategy; adding a variant means adding a type that satisfies
// this interface, not a subclassing hierarchy.
//
// Every method is non-blocking and returns immediately. Mutable state is
// confined to each credential's own counter or timestamp window, guarded by
// a lock scoped to that single credential, so unrelated credentials never
// contend - even within the same model.
//
// Implementations must be safe for concurrent use.
type CapacityStrategy interface {
	// Track attempts to reserve one capacity unit for the credential.
	// It returns true and mutates state iff the credential is currently
	// under its limit; it returns false without mutation otherwise.
	//
	// Track is atomic with respect to concurrent callers on the same
	// credential: the limit is re-checked under the credential's lock, so
	// of two callers racing after the same SelectInstance snapshot at most
	// the permitted number win admission.
	Track(key string) bool

	// Release returns one reserved unit. For variants whose capacity
	// expires by elapsed time this is a no-op. For variants tracking live
	// occupancy it decrements the counter, floored at zero.
	Release(key string)

	// AvailableCredentials returns every credential currently under its
	// limit, in configuration order. Time-windowed variants prune expired
	// entries first.
	AvailableCredentials() []Credential

	// LoadFactor returns current occupancy divided by the per-credential
	// maximum. It is a comparison score; lower means less loaded.
	LoadFactor(key string) float64

	// Occupancy returns the credential's current occupancy. Used by the
	// reporting layer; returns 0 for unknown keys.
	Occupancy(key string) int

	// CapacityInfo returns the summed occupancy across all credentials and
	// the total maximum (credential count times the per-credential max).
	CapacityInfo() (current, max int)

	// Type returns the variant tag for reporting.
	Type() CapacityType
}

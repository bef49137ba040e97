// Package balancer implements the admission-control and selection engine
// for the gateway: per-credential capacity strategies and the cross-model
// load balancer that picks the (model, credential) pair best able to serve
// a request right now.
//
// # Capacity Strategies
//
// Each model owns exactly one CapacityStrategy instance sized to its
// credential set. Two variants exist:
//
//   - ConcurrencyStrategy caps in-flight requests per credential. Track
//     increments a counter, Release decrements it.
//   - RateWindowStrategy caps admissions per credential within a trailing
//     one-second sliding window. Release is a no-op; occupancy self-expires.
//
// Both confine mutable state to the individual credential, guarded by a
// lock scoped to that credential, so unrelated credentials are admitted and
// released without contention.
//
// # Selection
//
// LoadBalancer.SelectInstance scores every eligible (model, credential)
// candidate as loadFactor/(modelWeight*credentialWeight) and returns the
// minimum. Selection is a read-only snapshot; admission is a separate Track
// call that re-checks the limit under the credential's lock. The race
// between the two is intentional: no credential can exceed its own limit,
// but a caller may see a capacity rejection immediately after a successful
// selection under concurrent load.
//
// # Admission/Release Protocol
//
// Callers must Track immediately after selection, treat a false return as
// an immediate rejection (never retried against the same pair), and Release
// exactly once on every exit path - after the response for single-value
// calls, after the final chunk for streaming calls.
package balancer

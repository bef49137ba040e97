package balancer

import "log/slog"

// LoadBalancer selects the single best (model, credential) pair for a
// request. It is stateless: selection is a read-only scan over the live
// model set and does not itself reserve capacity.
//
// The caller must Track the returned credential immediately after
// selection. Two callers may select the same pair off the same snapshot;
// Track re-checks the limit under the credential's lock, so the loser sees
// a normal capacity rejection rather than an overrun.
type LoadBalancer struct{}

// NewLoadBalancer creates a load balancer.
func NewLoadBalancer() *LoadBalancer {
	return &LoadBalancer{}
}

// SelectInstance scans every model that satisfies the tool-capability
// requirement and every credential currently under its limit, scoring each
// candidate as
//
//	score = loadFactor(credential) / (model.weight * credential.weight)
//
// and returns the candidate with the minimum score. Dividing the raw load
// factor by the combined weight makes higher-weighted models and
// credentials appear proportionally less loaded, which realizes weighted
// least-loaded selection without a separate weighted-random scheme.
//
// Ties break to the first candidate encountered in model registration
// order, then credential configuration order, so identical states yield
// identical selections.
//
// Returns NoAvailableInstanceError when the candidate set is empty: every
// eligible model is saturated, or no model supports tool calling when the
// request requires it.
func (lb *LoadBalancer) SelectInstance(models []*Model, requiresTools bool) (*Model, Credential, error) {
	var (
		best      *Model
		bestCred  Credential
		bestScore float64
		found     bool
	)

	for _, model := range models {
		if requiresTools && !model.SupportsTools() {
			continue
		}

		modelWeight := model.Weight()
		for _, cred := range model.AvailableCredentials() {
			score := model.LoadFactor(cred.Key) / (modelWeight * cred.Weight)
			if !found || score < bestScore {
				best = model
				bestCred = cred
				bestScore = score
				found = true
			}
		}
	}

	if !found {
		return nil, Credential{}, &NoAvailableInstanceError{
			RequiresTools: requiresTools,
			Models:        len(models),
		}
	}

	slog.Debug("selected instance",
		"model", best.Name(),
		"score", bestScore,
		"requires_tools", requiresTools,
	)

	return best, bestCred, nil
}

// Ganymede is an admission-control gateway for chat-completion providers.
//
// It fronts multiple upstream models with weighted least-loaded balancing
// across their API keys, enforcing per-model capacity limits (concurrent
// requests or requests per second) and reporting live load.
//
// Usage:
//
//	# Start the gateway with default configuration
//	ganymede run
//
//	# Start with a custom configuration file
//	ganymede run --config /etc/ganymede/config.yaml
//
//	# Validate a configuration file without starting
//	ganymede validate
//
//	# Show version information
//	ganymede version
package main

func main() {
	Execute()
}

// Package manager wires configuration, the load balancer, and provider
// adapters into one request path.
//
// The manager brackets every provider call with the admission protocol:
// select the least-loaded candidate, track the chosen credential, call the
// upstream, release. A credential is released exactly once per admitted
// request, on every exit path, including streaming responses where the
// release happens after the final chunk.
//
// Request outcomes fan out to registered Observers so that metrics and
// usage recording stay decoupled from the request path.
package manager

// Package middleware provides the HTTP middleware chain: request IDs,
// structured request logging, panic recovery, and CORS.
package middleware

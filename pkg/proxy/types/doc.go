// Package types defines the JSON request and response shapes of the
// gateway's HTTP surface.
package types

package balancer

import (
	"errors"
	"fmt"
)

// Common balancer errors that can be checked with errors.Is().
var (
	// ErrNoAvailableInstance is returned when no (model, credential) pair
	// has spare capacity for a request.
	ErrNoAvailableInstance = errors.New("no available instance")

	// ErrCapacityExceeded is returned when admission on a selected
	// credential fails because the credential is at its limit.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInvalidConfiguration is returned when a model or credential is
	// constructed or mutated with invalid parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownModel is returned by reporting lookups for a model name
	// that is not registered.
	ErrUnknownModel = errors.New("unknown model")

	// ErrUnknownCredential is returned by reporting lookups for a key that
	// does not belong to the model.
	ErrUnknownCredential = errors.New("unknown credential")
)

// NoAvailableInstanceError is returned by SelectInstance when the eligible
// candidate set is empty: every eligible model's credentials are saturated,
// or no model satisfies the tool-capability requirement.
type NoAvailableInstanceError struct {
	// RequiresTools indicates whether the request demanded tool calling.
	RequiresTools bool

	// Models is the number of models that were scanned.
	Models int
}

// Error implements the error interface.
func (e *NoAvailableInstanceError) Error() string {
	if e.RequiresTools {
		return fmt.Sprintf("no available instance across %d models (tool calling required)", e.Models)
	}
	return fmt.Sprintf("no available instance across %d models", e.Models)
}

// Is implements error matching for errors.Is().
func (e *NoAvailableInstanceError) Is(target error) bool {
	return target == ErrNoAvailableInstance
}

// CapacityExceededError is returned when Track rejects admission on the
// credential the caller attempted to use. It is a normal outcome of the
// select-then-track race and must not be retried against the same pair.
type CapacityExceededError struct {
	// Model is the model whose credential rejected admission.
	Model string

	// Key is the credential key that is at capacity.
	Key string
}

// Error implements the error interface.
func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("credential %q of model %q is at capacity", e.Key, e.Model)
}

// Is implements error matching for errors.Is().
func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// InvalidConfigurationError is returned when constructing or mutating a
// model or credential with invalid parameters. It fails fast, before any
// request is served.
type InvalidConfigurationError struct {
	// Field is the offending parameter (e.g. "weight", "api_keys").
	Field string

	// Reason describes why the value was rejected.
	Reason string
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Is implements error matching for errors.Is().
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// UnknownModelError is returned by reporting-layer lookups for a model name
// that is not registered. The selection path never raises it.
type UnknownModelError struct {
	// Model is the requested model name.
	Model string
}

// Error implements the error interface.
func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("model %q not found", e.Model)
}

// Is implements error matching for errors.Is().
func (e *UnknownModelError) Is(target error) bool {
	return target == ErrUnknownModel
}

// UnknownCredentialError is returned by reporting-layer lookups for a key
// that does not belong to the named model.
type UnknownCredentialError struct {
	// Model is the model that was searched.
	Model string

	// Key is the credential key that was not found.
	Key string
}

// Error implements the error interface.
func (e *UnknownCredentialError) Error() string {
	return fmt.Sprintf("credential %q not found on model %q", e.Key, e.Model)
}

// Is implements error matching for errors.Is().
func (e *UnknownCredentialError) Is(target error) bool {
	return target == ErrUnknownCredential
}

package config

import (
	"fmt"
	"strings"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	// Field is the dotted path of the offending field.
	Field string

	// Message describes why the value is invalid.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every validation failure so operators see all
// problems in one pass instead of fixing them one restart at a time.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "configuration is invalid"
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("configuration is invalid: %s", strings.Join(msgs, "; "))
}

// add records a validation failure.
func (e *ValidationErrors) add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// Validate checks the configuration for errors and fails fast before any
// request is served. A weight <= 0, a missing strategy parameter, or a
// malformed credential list is rejected here.
func Validate(cfg *Config) error {
	errs := &ValidationErrors{}

	if cfg.Server.ListenAddress == "" {
		errs.add("server.listen_address", "must not be empty")
	}

	if len(cfg.EnabledModels) == 0 {
		errs.add("enabled_models", "at least one model must be enabled")
	}

	seen := make(map[string]bool, len(cfg.EnabledModels))
	for _, name := range cfg.EnabledModels {
		if seen[name] {
			errs.add("enabled_models", fmt.Sprintf("model %q listed twice", name))
			continue
		}
		seen[name] = true

		mc, ok := cfg.Models[name]
		if !ok {
			errs.add("enabled_models", fmt.Sprintf("model %q has no models.%s section", name, name))
			continue
		}
		validateModel(errs, name, mc)
	}

	if cfg.Usage.Enabled && cfg.Usage.DBPath == "" {
		errs.add("usage.db_path", "must not be empty when usage recording is enabled")
	}

	if len(errs.Errors) > 0 {
		return errs
	}
	return nil
}

// validateModel checks one model section.
func validateModel(errs *ValidationErrors, name string, mc ModelConfig) {
	prefix := "models." + name

	if mc.Weight <= 0 {
		errs.add(prefix+".weight", "model weight must be positive")
	}

	switch mc.Strategy {
	case StrategyConcurrency:
		if mc.MaxConcurrency <= 0 {
			errs.add(prefix+".max_concurrency", "must be positive for the concurrency strategy")
		}
	case StrategyQPS:
		if mc.MaxPerSecond <= 0 {
			errs.add(prefix+".max_per_second", "must be positive for the qps strategy")
		}
	default:
		errs.add(prefix+".strategy", fmt.Sprintf("unknown strategy %q (valid: concurrency, qps)", mc.Strategy))
	}

	if len(mc.APIKeys) == 0 {
		errs.add(prefix+".api_keys", "at least one credential is required")
	}
	keySeen := make(map[string]bool, len(mc.APIKeys))
	for i, k := range mc.APIKeys {
		field := fmt.Sprintf("%s.api_keys[%d]", prefix, i)
		if k.Key == "" {
			errs.add(field, "credential key must not be empty")
			continue
		}
		if k.Weight <= 0 {
			errs.add(field, "credential weight must be positive")
		}
		if keySeen[k.Key] {
			errs.add(field, "duplicate credential key")
		}
		keySeen[k.Key] = true
	}

	if mc.Provider.BaseURL == "" {
		errs.add(prefix+".provider.base_url", "must not be empty")
	}
	if mc.Provider.Model == "" {
		errs.add(prefix+".provider.model", "must not be empty")
	}
}

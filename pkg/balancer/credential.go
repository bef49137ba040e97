package balancer

// Credential is one unit of provider-side access: an opaque API key plus a
// weight that scales the credential's effective capacity during selection.
//
// Credentials are constructed once at startup from configuration and live
// for the process lifetime. The weight must stay positive; construction
// rejects non-positive values.
type Credential struct {
	// Key is the opaque credential identifier (the provider API key).
	Key string

	// Weight scales the credential's effective capacity in scoring.
	// Must be > 0. Default: 1.0.
	Weight float64
}

// NewCredential creates a credential, validating that the key is non-empty
// and the weight is positive.
func NewCredential(key string, weight float64) (Credential, error) {
	if key == "" {
		return Credential{}, &InvalidConfigurationError{
			Field:  "api_keys",
			Reason: "credential key must not be empty",
		}
	}
	if weight <= 0 {
		return Credential{}, &InvalidConfigurationError{
			Field:  "api_keys",
			Reason: "credential weight must be positive",
		}
	}
	return Credential{Key: key, Weight: weight}, nil
}

// Package config provides configuration management for Ganymede.
//
// Configuration is loaded from a YAML file, filled with defaults, and
// validated before the process serves any request. Validation fails fast on
// a non-positive weight, a missing strategy parameter, or a malformed
// credential list.
//
// # Loading
//
//	cfg, err := config.LoadConfig("config.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Variables follow the naming convention GANYMEDE_SECTION_FIELD and always
// take precedence over the file:
//
//   - GANYMEDE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - GANYMEDE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//   - GANYMEDE_MODELS_ZHIPU_API_KEY replaces models.zhipu.api_keys
//
// # Credential Lists
//
// Each api_keys entry is either a bare string or a {key, weight} mapping;
// the weight defaults to 1.0:
//
//	models:
//	  zhipu:
//	    strategy: concurrency
//	    max_concurrency: 200
//	    api_keys:
//	      - "sk-plain"
//	      - key: "sk-weighted"
//	        weight: 2.0
package config

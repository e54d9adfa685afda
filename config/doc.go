// Package config loads ringbuf application configuration.
//
// A Config has three sections: buffer (capacity, max_capacity,
// shrink_policy), log (level, format) and metrics (enabled, port, path,
// prefix).
//
// # Loading
//
// Loader merges layers on top of Default(). Each layer is a YAML or JSON file
// and only the fields it names are overridden:
//
//	loader := config.NewLoader()
//	loader.AddLayer("configs/base.yaml")
//	loader.AddLayer("configs/production.yaml") // Overrides base
//	loader.EnableValidation(true)
//
//	cfg, err := loader.Load()
//	if err != nil {
//		return err
//	}
//
// Every layer is checked against an embedded JSON Schema (see Schema) before
// it is merged, so unknown keys and wrongly typed values are rejected with the
// offending field named.
//
// # Environment Overrides
//
// After merging, RINGBUF_<SECTION>_<FIELD> variables override single fields:
//
//	RINGBUF_BUFFER_CAPACITY=1024
//	RINGBUF_BUFFER_SHRINK_POLICY=keep_newest
//	RINGBUF_LOG_LEVEL=debug
//	RINGBUF_METRICS_ENABLED=true
//
// # Errors
//
// Load failures are classified errors from the errors package: a missing file
// wraps ErrConfigNotFound, unreadable syntax wraps ErrParsingFailed, and schema
// or semantic violations wrap ErrInvalidConfig.
package config

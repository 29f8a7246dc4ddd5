// Package config loads, normalizes, and validates recut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RECUT_EPISODES_API_KEY. The Config type centralizes every knob the CLI
// needs, from library/work directories through encode parameters to external
// binary locations.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config

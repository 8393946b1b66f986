// Package config loads, normalizes, and validates MyoDNA configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MYO_DATA_ROOT. The Config type centralizes every knob the CLI and server
// need, so the dataset root, journal location, and device settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a parseable log level, and clear validation errors.
package config

// Package config loads, normalizes, and validates humblesync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates every value before handing the
// Config to downstream code. The download concurrency bounds live here: a
// configuration that passes Validate is guaranteed to construct a valid
// download queue.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

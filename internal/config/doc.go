// Package config loads, normalizes, and validates bookstack configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and derives the source-table locations inside
// the data directory. Scheduling plans live here too; their cadence and
// calendar fields are validated at load so the scheduler never sees an
// unusable plan.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config

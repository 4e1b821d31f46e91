// Package config loads, normalizes, and validates the batchmux TOML
// configuration. All path fields are expanded (~, relative) at load time so
// downstream code never re-resolves them.
package config

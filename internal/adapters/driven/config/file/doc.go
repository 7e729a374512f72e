// Package file provides file-based configuration for the buildo CLI.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with dot-notation keys
//   - Settings: defaults, file values, .env and environment overrides, validated
package file

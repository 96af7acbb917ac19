// Package config loads the backend configuration from environment
// variables, command-line flags, and an optional JSON file, merging the
// sources and validating the result.
package config

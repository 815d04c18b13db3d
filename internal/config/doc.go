// Package config loads application settings from environment variables
// (prefixed TASKLIST_) and an optional config.yaml, applies defaults and
// validates the result before any component is constructed.
package config

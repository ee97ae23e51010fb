// Package config defines the kvfile-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//   - store.go: translation of the store section into kvfile arguments
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// KVFILE_ environment variables and command-line flags.
package config

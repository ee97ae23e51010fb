// Package main provides the entry point for kvfile-server.
//
// kvfile-server serves one store file over a line-oriented TCP protocol
// and exports Prometheus metrics. Configuration comes from an optional
// YAML file, KVFILE_ environment variables and command-line overrides,
// in increasing priority. The log level follows edits to the config file
// without a restart.
package main

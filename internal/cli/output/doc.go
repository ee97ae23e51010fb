// Package output formats kvfile-cli results.
//
//   - formatter.go: Formatter interface and factory
//   - text.go: plain text and tables for terminals
//   - json.go: indented JSON
//   - yaml.go: YAML
//
// Text output is meant for people; JSON and YAML are stable for scripts.
package output

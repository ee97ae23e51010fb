// Package repl provides the interactive shell of kvfile-cli.
//
//   - repl.go: Read-Eval-Print loop
//   - completer.go: Command name completion used by help
//   - history.go: Command history persistence
//
// Lines are executed by an Executor; the CLI plugs in the line server's
// command handler so the shell speaks the same protocol as kvfile-server.
package repl

// Package main provides the entry point for kvfile-cli.
//
// kvfile-cli inspects and edits kvfile store files directly, without a
// running server, either one command at a time or through the
// interactive shell.
package main

// Package command provides CLI command definitions for kvfile-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, store access
//   - kv.go: get, set, del, keys, dump
//   - list.go: List subcommand group
//   - convert.go: Re-encode a file in another format
//   - shell.go: Interactive line-protocol session
//   - version.go: Build information
//
// Every command opens the store file itself. Mutating commands open it
// with the DumpUponRequest policy and dump once after the mutation
// succeeds, so a failed command leaves the file untouched.
package command

// Package confloader loads kvfile server configuration with koanf.
//
// Sources, later overriding earlier:
//
//  1. Values already present in the target struct (defaults)
//  2. A YAML configuration file
//  3. Environment variables (KVFILE_ prefix, "__" between levels)
//  4. Explicit overrides, typically command-line flags
//
// A Watcher reports edits to the configuration file so the server can
// re-apply settings that are safe to change at runtime.
package confloader

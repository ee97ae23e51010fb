// Package logger builds the structured loggers used by kvfile binaries.
//
// Loggers are plain *slog.Logger values so they can be handed straight to
// kvfile.WithLogger. All loggers created by New share one slog.LevelVar,
// which lets the server change verbosity at runtime when its configuration
// file is edited.
//
//   - logger.go: handler construction and the shared level
//   - context.go: per-connection logger propagation
//   - truncate.go: clipping of oversized string attributes
package logger

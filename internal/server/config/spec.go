package config

import "time"

// ServerConfig is the root configuration for kvfile-server.
type ServerConfig struct {
	Store   StoreSection   `koanf:"store"`
	Server  ServerSection  `koanf:"server"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// StoreSection configures the backing store file.
type StoreSection struct {
	// Path is the store file. It is created on first dump if absent.
	Path string `koanf:"path"`
	// Format is one of json, msgpack, cbor, yaml.
	Format string `koanf:"format"`
	// Policy is one of never, auto, request, periodic.
	Policy string `koanf:"policy"`
	// Interval is the minimum time between dumps for the periodic policy.
	Interval time.Duration `koanf:"interval"`
	// Compress stores the snapshot zstd-compressed.
	Compress bool `koanf:"compress"`
}

// ServerSection configures the line protocol listener.
type ServerSection struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// RateLimit is the sustained commands per second allowed per
	// connection. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// MaxLineBytes bounds a single command line.
	MaxLineBytes int `koanf:"max_line_bytes"`
	// MaxConns bounds concurrent connections. Zero means unlimited.
	MaxConns int `koanf:"max_conns"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MetricsSection configures the admin HTTP server (/metrics, /health,
// /version, /dump).
type MetricsSection struct {
	// Addr is the HTTP listen address. Empty disables the server.
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

package config

import "time"

// Default configuration values.
const (
	DefaultStorePath   = "kvfile.db"
	DefaultStoreFormat = "json"
	DefaultStorePolicy = "auto"

	DefaultAddr            = "127.0.0.1:6380"
	DefaultReadTimeout     = 5 * time.Minute
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 5 * time.Minute
	DefaultRateLimit       = 1000
	DefaultRateBurst       = 100
	DefaultMaxLineBytes    = 1 << 20
	DefaultShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Store: StoreSection{
			Path:   DefaultStorePath,
			Format: DefaultStoreFormat,
			Policy: DefaultStorePolicy,
		},
		Server: ServerSection{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			RateLimit:       DefaultRateLimit,
			RateBurst:       DefaultRateBurst,
			MaxLineBytes:    DefaultMaxLineBytes,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

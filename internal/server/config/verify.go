package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/kvfile-go/internal/telemetry/logger"
)

// minLineBytes leaves room for the longest command name and a key.
const minLineBytes = 64

// Verify validates the configuration and creates the store directory if
// it does not exist.
func Verify(cfg *ServerConfig) error {
	if err := verifyStore(&cfg.Store); err != nil {
		return err
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		if err := verifyAddr("metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
		if cfg.Metrics.Addr == cfg.Server.Addr {
			return errors.New("metrics.addr must differ from server.addr")
		}
	}
	return verifyLog(&cfg.Log)
}

func verifyStore(cfg *StoreSection) error {
	if cfg.Path == "" {
		return errors.New("store.path is required")
	}
	if _, err := cfg.CodecFormat(); err != nil {
		return fmt.Errorf("store.format: %w", err)
	}
	if _, err := cfg.DumpPolicy(); err != nil {
		return fmt.Errorf("store.policy: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0750); err != nil {
		return fmt.Errorf("cannot create store directory: %w", err)
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if cfg.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		return errors.New("server.rate_burst must be at least 1 when rate_limit is set")
	}
	if cfg.MaxLineBytes < minLineBytes {
		return fmt.Errorf("server.max_line_bytes must be at least %d", minLineBytes)
	}
	if cfg.MaxConns < 0 {
		return errors.New("server.max_conns must not be negative")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

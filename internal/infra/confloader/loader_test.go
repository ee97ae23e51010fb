package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Store struct {
		Path   string `koanf:"path"`
		Format string `koanf:"format"`
	} `koanf:"store"`
	Server struct {
		Addr        string `koanf:"addr"`
		ReadTimeout string `koanf:"read_timeout"`
		RateLimit   int    `koanf:"rate_limit"`
	} `koanf:"server"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kvfile.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/etc/kvfile.yaml"))
	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.FilePath() != "/etc/kvfile.yaml" {
		t.Errorf("FilePath() = %q, want %q", l.FilePath(), "/etc/kvfile.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
store:
  path: "/var/lib/kvfile/data.db"
  format: msgpack
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got := l.GetString("store.format"); got != "msgpack" {
		t.Errorf("store.format = %q, want %q", got, "msgpack")
	}
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/kvfile.yaml"); err == nil {
		t.Error("LoadFile() should fail for a nonexistent file")
	}
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") error = %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("KVFILE_SERVER__ADDR", "127.0.0.1:7000")
	t.Setenv("KVFILE_SERVER__READ_TIMEOUT", "5s")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := l.GetString("server.addr"); got != "127.0.0.1:7000" {
		t.Errorf("server.addr = %q, want %q", got, "127.0.0.1:7000")
	}
	if got := l.GetString("server.read_timeout"); got != "5s" {
		t.Errorf("server.read_timeout = %q, want %q", got, "5s")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
store:
  path: from-file.db
  format: cbor
server:
  addr: "from-file:6380"
  read_timeout: 1s
`)
	t.Setenv("KVFILE_SERVER__ADDR", "from-env:6380")
	t.Setenv("KVFILE_STORE__FORMAT", "yaml")

	l := NewLoader(
		WithConfigFile(path),
		WithOverrides(map[string]any{
			"store.format": "json",
			"store.path":   "",
		}),
	)

	var cfg testConfig
	cfg.Server.RateLimit = 100
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "from-env:6380" {
		t.Errorf("Addr = %q, env should override file", cfg.Server.Addr)
	}
	if cfg.Store.Format != "json" {
		t.Errorf("Format = %q, override should win", cfg.Store.Format)
	}
	if cfg.Store.Path != "from-file.db" {
		t.Errorf("Path = %q, empty override should be ignored", cfg.Store.Path)
	}
	if cfg.Server.ReadTimeout != "1s" {
		t.Errorf("ReadTimeout = %q, want %q", cfg.Server.ReadTimeout, "1s")
	}
	if cfg.Server.RateLimit != 100 {
		t.Errorf("RateLimit = %d, default should survive", cfg.Server.RateLimit)
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, "store:\n  format: json\n")
	l := NewLoader(WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("store:\n  format: cbor\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if cfg.Store.Format != "cbor" {
		t.Errorf("Format after reload = %q, want %q", cfg.Store.Format, "cbor")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"server.addr": "localhost:3000"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if got := l.GetString("server.addr"); got != "localhost:3000" {
		t.Errorf("server.addr = %q, want %q", got, "localhost:3000")
	}
}

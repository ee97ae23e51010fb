package command

import (
	"os"
	"strings"
	"testing"
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "kvfile-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "kvfile-cli")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, name := range []string{"get", "set", "del", "keys", "dump", "list", "convert", "version"} {
		if !commandNames[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}
	for _, name := range []string{"file", "format", "compress", "output"} {
		if !flagNames[name] {
			t.Errorf("missing global flag: %s", name)
		}
	}
}

func TestApp_InvalidGlobalFormats(t *testing.T) {
	path := storePath(t)
	if _, err := run(t, "-f", path, "-o", "xml", "keys"); err == nil {
		t.Error("expected error for unknown output format")
	}
	if _, err := run(t, "-f", path, "--format", "toml", "keys"); err == nil {
		t.Error("expected error for unknown store format")
	}
}

func TestDump_CreatesFile(t *testing.T) {
	path := storePath(t)

	out := mustRun(t, "-f", path, "dump")
	if out != "OK (0 keys)\n" {
		t.Errorf("dump output = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("store file not created: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "-o", "json", "version")
	if !strings.Contains(out, `"go_version"`) || !strings.Contains(out, `"version"`) {
		t.Errorf("version output = %s", out)
	}

	out = mustRun(t, "version")
	if !strings.HasPrefix(out, "FIELD") {
		t.Errorf("text version output = %q", out)
	}
}

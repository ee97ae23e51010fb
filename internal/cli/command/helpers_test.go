package command

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"
)

// run executes the CLI with args and returns what it wrote to stdout.
// Exit errors are returned instead of terminating the test binary.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := App()
	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"kvfile-cli"}, args...))
	return buf.String(), err
}

// mustRun is run that fails the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("run(%v) error = %v", args, err)
	}
	return out
}

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.db")
}

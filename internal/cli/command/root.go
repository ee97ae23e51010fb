package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvfile-go/internal/cli/output"
	"github.com/yndnr/kvfile-go/internal/infra/buildinfo"
	"github.com/yndnr/kvfile-go/pkg/codec"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "kvfile-cli",
		Usage:   "Inspect and edit kvfile store files",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			GetCommand(),
			SetCommand(),
			DelCommand(),
			KeysCommand(),
			DumpCommand(),
			ListCommand(),
			ConvertCommand(),
			ShellCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			if _, err := output.ParseFormat(c.String("output")); err != nil {
				return err
			}
			_, err := codec.ParseFormat(c.String("format"))
			return err
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Store file path",
			EnvVars: []string{"KVFILE_FILE"},
			Value:   "kvfile.db",
		},
		&cli.StringFlag{
			Name:    "format",
			Usage:   "Store file format: json, msgpack, cbor, yaml",
			EnvVars: []string{"KVFILE_FORMAT"},
			Value:   string(codec.JSON),
		},
		&cli.BoolFlag{
			Name:  "compress",
			Usage: "Store file is zstd-compressed",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json, yaml",
			Value:   string(output.FormatText),
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	File     string
	Format   codec.Format
	Compress bool
	Output   output.Format
}

// ParseGlobalFlags extracts global flags from context.
// Both formats were validated in App's Before hook.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, _ := codec.ParseFormat(c.String("format"))
	out, _ := output.ParseFormat(c.String("output"))
	return &GlobalFlags{
		File:     c.String("file"),
		Format:   format,
		Compress: c.Bool("compress"),
		Output:   out,
	}
}

func (g *GlobalFlags) options() []kvfile.Option {
	if g.Compress {
		return []kvfile.Option{kvfile.WithCompression()}
	}
	return nil
}

// openStore opens the store named by the global flags under policy. A
// missing file yields an empty store; it is only created on disk once the
// store dumps.
func openStore(c *cli.Context, policy kvfile.DumpPolicy) (*kvfile.Store, error) {
	flags := ParseGlobalFlags(c)

	_, err := os.Stat(flags.File)
	switch {
	case err == nil:
		return kvfile.Load(flags.File, policy, flags.Format, flags.options()...)
	case errors.Is(err, fs.ErrNotExist):
		return kvfile.New(flags.File, policy, flags.Format, flags.options()...)
	default:
		return nil, fmt.Errorf("stat %s: %w", flags.File, err)
	}
}

// mutate opens the store, applies fn and dumps the result.
func mutate(c *cli.Context, fn func(s *kvfile.Store) error) error {
	s, err := openStore(c, kvfile.UponRequest())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s); err != nil {
		return err
	}
	return s.Dump()
}

// view opens the store read-only and applies fn.
func view(c *cli.Context, fn func(s *kvfile.Store) error) error {
	s, err := openStore(c, kvfile.Never())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// emit writes text in text mode and data in the structured formats.
func emit(c *cli.Context, text string, data any) error {
	flags := ParseGlobalFlags(c)
	if flags.Output == output.FormatText {
		return output.NewFormatter(output.FormatText).Format(c.App.Writer, text)
	}
	return output.NewFormatter(flags.Output).Format(c.App.Writer, data)
}

// show writes data with the selected formatter.
func show(c *cli.Context, data any) error {
	return output.NewFormatter(ParseGlobalFlags(c).Output).Format(c.App.Writer, data)
}

// decodeAny decodes a stored value, preferring a plain string.
func decodeAny(decode func(any) bool) (any, bool) {
	var s string
	if decode(&s) {
		return s, true
	}
	var v any
	if decode(&v) {
		return v, true
	}
	return nil, false
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

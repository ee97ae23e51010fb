package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvfile-go/pkg/codec"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// convertSummary is the structured form of a convert result.
type convertSummary struct {
	Out     string `json:"out" yaml:"out"`
	Format  string `json:"format" yaml:"format"`
	Scalars int    `json:"scalars" yaml:"scalars"`
	Lists   int    `json:"lists" yaml:"lists"`
}

// ConvertCommand returns the convert command.
func ConvertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Write the store to a new file in another format",
		Description: "Loads --file under --format and writes every scalar and list to --out " +
			"under --to. Values are decoded generically, so typed values come back as " +
			"strings, numbers, booleans, lists and maps.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Target format: json, msgpack, cbor, yaml",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Usage:    "Target file path",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "compress-out",
				Usage: "zstd-compress the target file",
			},
		},
		Action: convertAction,
	}
}

func convertAction(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	to, err := codec.ParseFormat(c.String("to"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	out := c.String("out")
	if out == flags.File {
		return cli.Exit("--out must differ from --file", 1)
	}

	src, err := kvfile.LoadReadOnly(flags.File, flags.Format, flags.options()...)
	if err != nil {
		return err
	}
	defer src.Close()

	var opts []kvfile.Option
	if c.Bool("compress-out") {
		opts = append(opts, kvfile.WithCompression())
	}
	dst, err := kvfile.New(out, kvfile.UponRequest(), to, opts...)
	if err != nil {
		return err
	}
	defer dst.Close()

	summary := convertSummary{Out: out, Format: string(to)}
	for it := src.Iter(); it.Next(); {
		e := it.Entry()
		v, ok := decodeAny(e.Decode)
		if !ok {
			return fmt.Errorf("decode %q: value is not readable as %s", e.Key(), flags.Format)
		}
		if err := dst.Set(e.Key(), v); err != nil {
			return err
		}
		summary.Scalars++
	}

	for _, name := range src.Keys() {
		if !src.ListExists(name) {
			continue
		}
		if _, err := dst.ListCreate(name); err != nil {
			return err
		}
		items := make([]any, 0, src.ListLen(name))
		for it := src.ListIter(name); it.Next(); {
			v, ok := decodeAny(it.Item().Decode)
			if !ok {
				return fmt.Errorf("decode %s[%d]: element is not readable as %s", name, it.Index(), flags.Format)
			}
			items = append(items, v)
		}
		if _, err := dst.ListExtend(name, items...); err != nil {
			return err
		}
		summary.Lists++
	}

	if err := dst.Dump(); err != nil {
		return err
	}
	return emit(c, fmt.Sprintf("wrote %s (%s): %d scalars, %d lists", out, to, summary.Scalars, summary.Lists), summary)
}

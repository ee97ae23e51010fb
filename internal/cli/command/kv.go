package command

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvfile-go/internal/cli/output"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// entry is the structured form of a single key and value.
type entry struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// result reports the outcome of a mutation.
type result struct {
	Key     string `json:"key" yaml:"key"`
	Changed bool   `json:"changed" yaml:"changed"`
}

var jsonFlag = &cli.BoolFlag{
	Name:  "json",
	Usage: "Parse values as JSON instead of storing them as strings",
}

// parseValue returns raw as a string, or its JSON decoding when asJSON is set.
func parseValue(raw string, asJSON bool) (any, error) {
	if !asJSON {
		return raw, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON value %q: %w", raw, err)
	}
	return v, nil
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value stored under a key",
		ArgsUsage: "KEY",
		Action:    getAction,
	}
}

func getAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: get KEY", 1)
	}
	key := c.Args().First()

	return view(c, func(s *kvfile.Store) error {
		v, ok := decodeAny(func(dst any) bool { return s.GetInto(key, dst) })
		if !ok {
			if s.ListExists(key) {
				return cli.Exit(fmt.Sprintf("%q is a list, use 'list get'", key), 1)
			}
			return cli.Exit(fmt.Sprintf("key not found: %s", key), 1)
		}
		return emit(c, output.Value(v), entry{Key: key, Value: v})
	})
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value under a key",
		ArgsUsage: "KEY VALUE",
		Flags:     []cli.Flag{jsonFlag},
		Action:    setAction,
	}
}

func setAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: set KEY VALUE", 1)
	}
	key := c.Args().Get(0)
	value, err := parseValue(c.Args().Get(1), c.Bool("json"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := mutate(c, func(s *kvfile.Store) error { return s.Set(key, value) }); err != nil {
		return err
	}
	return emit(c, "OK", result{Key: key, Changed: true})
}

// DelCommand returns the del command.
func DelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Aliases:   []string{"rm"},
		Usage:     "Remove a key",
		ArgsUsage: "KEY",
		Action:    delAction,
	}
}

func delAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: del KEY", 1)
	}
	key := c.Args().First()

	var removed bool
	err := mutate(c, func(s *kvfile.Store) error {
		var err error
		removed, err = s.Remove(key)
		return err
	})
	if err != nil {
		return err
	}
	if !removed {
		return cli.Exit(fmt.Sprintf("key not found: %s", key), 1)
	}
	return emit(c, "OK", result{Key: key, Changed: true})
}

// KeysCommand returns the keys command.
func KeysCommand() *cli.Command {
	return &cli.Command{
		Name:   "keys",
		Usage:  "List all keys, scalars and lists alike",
		Action: keysAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Only list keys with this prefix",
			},
		},
	}
}

func keysAction(c *cli.Context) error {
	prefix := c.String("prefix")
	return view(c, func(s *kvfile.Store) error {
		keys := make([]string, 0, s.Len())
		for _, k := range s.Keys() {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		return show(c, keys)
	})
}

// DumpCommand returns the dump command.
func DumpCommand() *cli.Command {
	return &cli.Command{
		Name:   "dump",
		Usage:  "Rewrite the store file, creating it if absent",
		Action: dumpAction,
	}
}

func dumpAction(c *cli.Context) error {
	var n int
	err := mutate(c, func(s *kvfile.Store) error {
		n = s.Len()
		return nil
	})
	if err != nil {
		return err
	}
	return emit(c, fmt.Sprintf("OK (%d keys)", n), map[string]int{"keys": n})
}

package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvfile-go/internal/cli/output"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// listInfo is the structured form of a list operation result.
type listInfo struct {
	Name   string `json:"name" yaml:"name"`
	Length int    `json:"length" yaml:"length"`
}

// ListCommand returns the list command group.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List operations",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create an empty list, replacing any value under the name",
				ArgsUsage: "NAME",
				Action:    listCreateAction,
			},
			{
				Name:      "push",
				Usage:     "Append values to an existing list",
				ArgsUsage: "NAME VALUE...",
				Flags:     []cli.Flag{jsonFlag},
				Action:    listPushAction,
			},
			{
				Name:      "get",
				Usage:     "Print the element at an index",
				ArgsUsage: "NAME INDEX",
				Action:    listGetAction,
			},
			{
				Name:      "len",
				Usage:     "Print the number of elements",
				ArgsUsage: "NAME",
				Action:    listLenAction,
			},
			{
				Name:      "pop",
				Usage:     "Remove and print the element at an index",
				ArgsUsage: "NAME INDEX",
				Action:    listPopAction,
			},
			{
				Name:      "rm",
				Usage:     "Remove a list",
				ArgsUsage: "NAME",
				Action:    listRemoveAction,
			},
			{
				Name:      "show",
				Usage:     "Print all elements",
				ArgsUsage: "NAME",
				Action:    listShowAction,
			},
		},
	}
}

func listCreateAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: list create NAME", 1)
	}
	name := c.Args().First()

	err := mutate(c, func(s *kvfile.Store) error {
		_, err := s.ListCreate(name)
		return err
	})
	if err != nil {
		return err
	}
	return emit(c, "OK", listInfo{Name: name})
}

func listPushAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: list push NAME VALUE...", 1)
	}
	name := c.Args().First()
	values := make([]any, 0, c.NArg()-1)
	for _, raw := range c.Args().Tail() {
		v, err := parseValue(raw, c.Bool("json"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		values = append(values, v)
	}

	var length int
	err := mutate(c, func(s *kvfile.Store) error {
		ext, err := s.ListExtend(name, values...)
		if err != nil {
			return err
		}
		if ext == nil {
			return cli.Exit(fmt.Sprintf("list not found: %s", name), 1)
		}
		length = s.ListLen(name)
		return nil
	})
	if err != nil {
		return err
	}
	return emit(c, strconv.Itoa(length), listInfo{Name: name, Length: length})
}

func listGetAction(c *cli.Context) error {
	name, index, err := nameAndIndex(c, "get")
	if err != nil {
		return err
	}

	return view(c, func(s *kvfile.Store) error {
		v, ok := decodeAny(func(dst any) bool { return s.ListGetInto(name, index, dst) })
		if !ok {
			return cli.Exit(fmt.Sprintf("no element %d in list %s", index, name), 1)
		}
		return emit(c, output.Value(v), v)
	})
}

func listLenAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: list len NAME", 1)
	}
	name := c.Args().First()

	return view(c, func(s *kvfile.Store) error {
		n := s.ListLen(name)
		return emit(c, strconv.Itoa(n), listInfo{Name: name, Length: n})
	})
}

func listPopAction(c *cli.Context) error {
	name, index, err := nameAndIndex(c, "pop")
	if err != nil {
		return err
	}

	var (
		popped any
		found  bool
	)
	err = mutate(c, func(s *kvfile.Store) error {
		popped, _ = decodeAny(func(dst any) bool { return s.ListGetInto(name, index, dst) })
		var err error
		found, err = s.ListPopInto(name, index, new(any))
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return cli.Exit(fmt.Sprintf("no element %d in list %s", index, name), 1)
	}
	return emit(c, output.Value(popped), popped)
}

func listRemoveAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: list rm NAME", 1)
	}
	name := c.Args().First()

	var n int
	err := mutate(c, func(s *kvfile.Store) error {
		var err error
		n, err = s.ListRemoveAll(name)
		return err
	})
	if err != nil {
		return err
	}
	return emit(c, strconv.Itoa(n), listInfo{Name: name, Length: n})
}

func listShowAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: list show NAME", 1)
	}
	name := c.Args().First()

	return view(c, func(s *kvfile.Store) error {
		if !s.ListExists(name) {
			return cli.Exit(fmt.Sprintf("list not found: %s", name), 1)
		}

		table := &output.Table{Headers: []string{"INDEX", "VALUE"}}
		items := make([]any, 0, s.ListLen(name))
		for it := s.ListIter(name); it.Next(); {
			v, _ := decodeAny(it.Item().Decode)
			items = append(items, v)
			table.AddRow(strconv.Itoa(it.Index()), output.Value(v))
		}

		if ParseGlobalFlags(c).Output == output.FormatText {
			return show(c, table)
		}
		return show(c, items)
	})
}

func nameAndIndex(c *cli.Context, sub string) (string, int, error) {
	if c.NArg() != 2 {
		return "", 0, cli.Exit(fmt.Sprintf("usage: list %s NAME INDEX", sub), 1)
	}
	index, err := strconv.Atoi(c.Args().Get(1))
	if err != nil || index < 0 {
		return "", 0, cli.Exit(fmt.Sprintf("invalid index %q", c.Args().Get(1)), 1)
	}
	return c.Args().Get(0), index, nil
}

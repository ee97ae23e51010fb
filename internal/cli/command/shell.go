package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvfile-go/internal/cli/repl"
	"github.com/yndnr/kvfile-go/internal/server/lineserver"
	"github.com/yndnr/kvfile-go/internal/telemetry/logger"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive session speaking the kvfile-server line protocol",
		Description: "Opens the store with the auto dump policy, so every successful " +
			"mutation is written before its reply is printed.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file; empty disables persistence",
				Value: repl.DefaultHistoryFile(),
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	s, err := openStore(c, kvfile.Auto())
	if err != nil {
		return err
	}
	defer s.Close()

	history := repl.NewHistory(c.String("history"), repl.DefaultHistorySize)
	if err := history.Load(); err != nil {
		PrintError("load history: %v", err)
	}

	r := repl.New(
		c.App.Reader,
		c.App.Writer,
		lineserver.NewHandler(s, logger.Discard(), nil),
		repl.NewCompleter(lineserver.Commands()),
		history,
	)
	runErr := r.Run()

	if err := history.Save(); err != nil {
		PrintError("save history: %v", err)
	}
	return runErr
}

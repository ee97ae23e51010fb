package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvfile-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			return show(c, buildinfo.Get())
		},
	}
}

package cmd

import (
	"github.com/urfave/cli/v2"
)

func CreateRunCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "run",
		Usage:       "Runs every tool enabled in the profile",
		Description: "Replays a session log with the counters and the register trace attached to one observer",
		ArgsUsage:   "<session-log>",
		Action:      action,
		Flags:       sessionFlags,
	}
}

var RunCommand = CreateRunCommand(RunTools)

func RunTools(ctx *cli.Context) error {
	return observe(ctx, func(string) bool { return true })
}

package cmd

import (
	"github.com/ChainSafe/vm-observer/profile"
	"github.com/urfave/cli/v2"
)

func CreateCountCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "count",
		Usage:       "Counts R-type and I-type instructions executed in a session",
		Description: "Replays a session log against the program listing and reports instruction counts per category",
		ArgsUsage:   "<session-log>",
		Action:      action,
		Flags:       sessionFlags,
	}
}

var CountCommand = CreateCountCommand(CountInstructions)

func CountInstructions(ctx *cli.Context) error {
	return observe(ctx, func(tool string) bool {
		return tool == profile.ToolRTypeCounter || tool == profile.ToolITypeCounter
	})
}

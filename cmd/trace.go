package cmd

import (
	"github.com/ChainSafe/vm-observer/profile"
	"github.com/urfave/cli/v2"
)

func CreateTraceCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "trace",
		Usage:       "Traces the destination register of every R-type and I-type instruction",
		Description: "Replays a session log and records the destination register value before and after each instruction",
		ArgsUsage:   "<session-log>",
		Action:      action,
		Flags:       sessionFlags,
	}
}

var TraceCommand = CreateTraceCommand(TraceRegisters)

func TraceRegisters(ctx *cli.Context) error {
	return observe(ctx, func(tool string) bool {
		return tool == profile.ToolRegisterTrace
	})
}

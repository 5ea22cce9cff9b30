package main

import (
	"context"
	"log"
	"os"

	"github.com/ChainSafe/vm-observer/cmd"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"
)

var CPUProfileFlag = &cli.PathFlag{
	Name:     "cpu-profile",
	Usage:    "directory to write a CPU profile of the run to",
	Required: false,
}

func main() {
	var prof interface{ Stop() }

	app := cli.NewApp()
	app.Name = os.Args[0]
	app.Usage = "MIPS Instruction Observer"
	app.Description = "Counts and traces the instructions of a recorded MIPS simulation session"
	app.Flags = []cli.Flag{CPUProfileFlag}
	app.Commands = []*cli.Command{
		cmd.CountCommand,
		cmd.TraceCommand,
		cmd.RunCommand,
		cmd.ListCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		if dir := ctx.Path(CPUProfileFlag.Name); dir != "" {
			prof = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook)
		}
		return nil
	}
	app.After = func(*cli.Context) error {
		if prof != nil {
			prof.Stop()
		}
		return nil
	}
	err := app.RunContext(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

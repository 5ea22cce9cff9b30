package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ChainSafe/vm-observer/asmparser/mips"
	"github.com/ChainSafe/vm-observer/classifier"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func CreateListCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "Lists the decoded program with the format and category of each statement",
		Description: "Lists the decoded program with the format and category of each statement",
		Action:      action,
		Flags:       programFlags,
	}
}

var ListCommand = CreateListCommand(ListProgram)

func ListProgram(ctx *cli.Context) error {
	prog, err := loadProgram(ctx)
	if err != nil {
		return err
	}
	return printProgram(prog, os.Stdout)
}

func printProgram(prog *mips.Program, output io.Writer) error {
	classifiers := []*classifier.Classifier{classifier.NewRType(), classifier.NewIType()}
	label := color.New(color.FgGreen)
	if f, ok := output.(*os.File); !ok || f != os.Stdout {
		label.DisableColor()
	}

	for _, instr := range prog.Instructions() {
		if name, ok := prog.Label(instr.Address()); ok {
			if _, err := fmt.Fprintln(output, label.Sprintf("<%s>:", name)); err != nil {
				return err
			}
		}
		category := "-"
		for _, c := range classifiers {
			if cat, ok := c.Classify(instr); ok {
				category = string(cat)
				break
			}
		}
		_, err := fmt.Fprintf(output, "0x%08x  0x%08x  %-14s %-22s %s\n",
			instr.Address(), instr.Encoding(), instr.Format(), category, instr.Source())
		if err != nil {
			return err
		}
	}
	first, last := prog.Bounds()
	_, err := fmt.Fprintf(output, "%d statements, 0x%08x-0x%08x\n", len(prog.Instructions()), first, last)
	return err
}

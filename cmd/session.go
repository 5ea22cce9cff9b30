// Package cmd defines all the commands for the cli
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChainSafe/vm-observer/asmparser/mips"
	"github.com/ChainSafe/vm-observer/disassembler"
	"github.com/ChainSafe/vm-observer/observer"
	"github.com/ChainSafe/vm-observer/profile"
	"github.com/ChainSafe/vm-observer/registers"
	"github.com/ChainSafe/vm-observer/renderer"
	"github.com/ChainSafe/vm-observer/replay"
	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
)

var (
	ProfileFlag = &cli.PathFlag{
		Name:     "profile",
		Usage:    "Path to the tool profile config file (yaml or json). Default: every tool on the MARS text segment",
		Required: false,
	}
	ListingFlag = &cli.PathFlag{
		Name:     "listing",
		Usage:    "Path to the program listing (objdump or MARS text segment dump)",
		Required: false,
	}
	BinaryFlag = &cli.PathFlag{
		Name:     "binary",
		Usage:    "Path to a MIPS binary to disassemble instead of a listing",
		Required: false,
	}
	ObjdumpFlag = &cli.StringFlag{
		Name:     "objdump",
		Usage:    "objdump tool used with --binary",
		Required: false,
		Value:    disassembler.DefaultTool,
	}
	DisassemblyOutputFlag = &cli.PathFlag{
		Name:     "disassembly-output-path",
		Usage:    "File path to store the disassembled assembly code",
		Required: false,
	}
	FormatFlag = &cli.StringFlag{
		Name:     "format",
		Usage:    "format of the output. Options: json, text. Overrides the profile",
		Required: false,
	}
	ReportOutputPathFlag = &cli.PathFlag{
		Name:     "report-output-path",
		Usage:    "output file path for report. Default: stdout",
		Required: false,
	}
	VerboseFlag = &cli.BoolFlag{
		Name:     "verbose",
		Usage:    "log every observed instruction",
		Required: false,
		Value:    false,
	}
	DebugFlag = &cli.BoolFlag{
		Name:     "debug",
		Usage:    "dump the register file and replay result to stderr",
		Required: false,
		Value:    false,
	}
)

var programFlags = []cli.Flag{
	ListingFlag,
	BinaryFlag,
	ObjdumpFlag,
	DisassemblyOutputFlag,
}

var sessionFlags = []cli.Flag{
	ProfileFlag,
	ListingFlag,
	BinaryFlag,
	ObjdumpFlag,
	DisassemblyOutputFlag,
	FormatFlag,
	ReportOutputPathFlag,
	VerboseFlag,
	DebugFlag,
}

// observe replays the session log given as first argument against the
// listing, with the profile tools that pass filter.
func observe(ctx *cli.Context, filter func(tool string) bool) error {
	prof, err := loadProfile(ctx.Path(ProfileFlag.Name))
	if err != nil {
		return fmt.Errorf("error loading profile: %w", err)
	}
	format := prof.Format
	if ctx.IsSet(FormatFlag.Name) {
		format = ctx.String(FormatFlag.Name)
	}

	sessionPath := ctx.Args().First()
	if sessionPath == "" {
		return fmt.Errorf("missing session log argument")
	}

	prog, err := loadProgram(ctx)
	if err != nil {
		return err
	}
	events, err := replay.ParseFile(sessionPath)
	if err != nil {
		return fmt.Errorf("error reading session: %w", err)
	}

	tools := buildTools(prof, filter)
	if len(tools) == 0 {
		return fmt.Errorf("no tools enabled in profile %s", prof.Name)
	}

	logger := newLogger(ctx.Bool(VerboseFlag.Name))
	first, last := prog.Bounds()
	logger.Info("program loaded",
		"statements", len(prog.Instructions()),
		"first", fmt.Sprintf("0x%08x", first),
		"last", fmt.Sprintf("0x%08x", last))
	regs := registers.NewFile()
	obs := observer.New(prog, regs,
		observer.WithTools(tools...),
		observer.WithRange(prof.Range()),
		observer.WithLogger(logger),
	)

	res, err := replay.Run(ctx.Context, events, regs, obs)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	logger.Info("session replayed",
		"events", res.Events,
		"delivered", res.Delivered,
		"skipped", res.Skipped,
		"resets", res.Resets)

	if ctx.Bool(DebugFlag.Name) {
		dumpState(regs, res)
	}

	report := renderer.NewReport(prof.Name, res.Skipped, obs.Tools()...)
	if err := writeReport(report, format, ctx.Path(ReportOutputPathFlag.Name)); err != nil {
		return fmt.Errorf("unable to write report: %w", err)
	}
	return nil
}

// loadProgram reads the listing, or disassembles the binary when no listing is given.
func loadProgram(ctx *cli.Context) (*mips.Program, error) {
	if listing := ctx.Path(ListingFlag.Name); listing != "" {
		prog, err := mips.Load(listing)
		if err != nil {
			return nil, fmt.Errorf("error loading listing: %w", err)
		}
		return prog, nil
	}
	binary := ctx.Path(BinaryFlag.Name)
	if binary == "" {
		return nil, fmt.Errorf("either --%s or --%s is required", ListingFlag.Name, BinaryFlag.Name)
	}
	dis := disassembler.New(ctx.String(ObjdumpFlag.Name))
	listing, err := dis.Disassemble(ctx.Context, binary, ctx.Path(DisassemblyOutputFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("error disassembling the file: %w", err)
	}
	prog, err := mips.ParseListing(strings.NewReader(listing))
	if err != nil {
		return nil, fmt.Errorf("error loading disassembly: %w", err)
	}
	return prog, nil
}

func loadProfile(path string) (*profile.ToolProfile, error) {
	if path == "" {
		return profile.Default(), nil
	}
	return profile.LoadProfile(path)
}

// buildTools creates the tools enabled in prof in their canonical order.
func buildTools(prof *profile.ToolProfile, filter func(tool string) bool) []observer.Tool {
	tools := make([]observer.Tool, 0)
	constructors := []struct {
		id  string
		new func() observer.Tool
	}{
		{profile.ToolRTypeCounter, func() observer.Tool { return observer.NewRTypeCounter() }},
		{profile.ToolITypeCounter, func() observer.Tool { return observer.NewITypeCounter() }},
		{profile.ToolRegisterTrace, func() observer.Tool { return observer.NewTraceTool() }},
	}
	for _, c := range constructors {
		if prof.Enabled(c.id) && filter(c.id) {
			tools = append(tools, c.new())
		}
	}
	return tools
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func dumpState(regs *registers.File, res replay.Result) {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(os.Stderr, regs.Snapshot(), res)
}

// writeReport outputs the results in the specified format.
func writeReport(report *renderer.Report, format, outputPath string) error {
	var output *os.File
	if outputPath == "" {
		output = os.Stdout
	} else {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return fmt.Errorf("unable to determine absolute path: %w", err)
		}
		output, err = os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("unable to open output file: %w", err)
		}
		defer func() {
			_ = output.Close()
		}()
	}

	renderers := []renderer.Renderer{
		renderer.NewTextRenderer(output == os.Stdout),
		renderer.NewJSONRenderer(),
	}
	for _, r := range renderers {
		if r.Format() == format {
			return r.Render(report, output)
		}
	}
	return fmt.Errorf("invalid format: %s", format)
}

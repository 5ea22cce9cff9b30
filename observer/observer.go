// Package observer drives the instruction classifiers and the register
// trace from the memory read notifications of a running simulation.
package observer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ChainSafe/vm-observer/asmparser"
	"github.com/ChainSafe/vm-observer/registers"
	"github.com/ChainSafe/vm-observer/tracer"
)

// Default bounds of the MARS text segment.
const (
	TextBaseAddress  uint32 = 0x00400000
	TextLimitAddress uint32 = 0x0ffffffc
)

// AccessKind is the kind of memory access a notification reports.
type AccessKind int

const (
	Read AccessKind = iota
	Write
)

func (k AccessKind) String() string {
	if k == Write {
		return "write"
	}
	return "read"
}

// Origin tells whether the simulated program or the tooling caused an access.
type Origin int

const (
	FromProgram Origin = iota
	FromTooling
)

func (o Origin) String() string {
	if o == FromTooling {
		return "tooling"
	}
	return "program"
}

// Notification is a memory access reported by the host simulator.
type Notification struct {
	Address uint32
	Kind    AccessKind
	Origin  Origin
}

// State of the observer.
type State int

const (
	Idle State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// Step is one transition to a new instruction, handed to every tool once
// all fallible work for it has succeeded.
type Step struct {
	Instruction asmparser.Instruction
	// Before is the destination register of Instruction before it executes.
	Before *tracer.Snapshot
	// Previous is the instruction observed before this one, nil on the first step.
	Previous asmparser.Instruction
	// After is the destination register of Previous after it executed.
	After *tracer.Snapshot
}

// Tool consumes observer steps.
type Tool interface {
	Name() string
	Apply(step Step)
	Reset()
}

// Observer de-duplicates read notifications per instruction address and
// feeds each new instruction to its tools. It is not safe for concurrent
// use; the host serializes notifications.
type Observer struct {
	decoder  asmparser.Decoder
	recorder *tracer.Recorder
	tools    []Tool
	low      uint32
	high     uint32
	logger   *slog.Logger

	last asmparser.Instruction
}

// Option configures an Observer.
type Option func(*Observer)

// WithTools attaches tools to the observer.
func WithTools(tools ...Tool) Option {
	return func(o *Observer) {
		o.tools = append(o.tools, tools...)
	}
}

// WithRange limits the observed addresses to [low, high].
func WithRange(low, high uint32) Option {
	return func(o *Observer) {
		o.low, o.high = low, high
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Observer) {
		o.logger = logger
	}
}

// New returns an idle observer resolving instructions with decoder and
// sampling registers from regs.
func New(decoder asmparser.Decoder, regs registers.Store, opts ...Option) *Observer {
	o := &Observer{
		decoder:  decoder,
		recorder: tracer.NewRecorder(regs),
		low:      TextBaseAddress,
		high:     TextLimitAddress,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Notify processes one memory access notification. Writes, tooling accesses,
// addresses outside the observed range and repeats of the last address are
// ignored. On error the observer keeps its previous state.
func (o *Observer) Notify(n Notification) error {
	if n.Kind != Read || n.Origin != FromProgram {
		return nil
	}
	if n.Address < o.low || n.Address > o.high {
		return nil
	}
	if o.last != nil && o.last.Address() == n.Address {
		return nil
	}

	step, err := o.prepare(n.Address)
	if err != nil {
		return err
	}
	for _, tool := range o.tools {
		tool.Apply(step)
	}
	o.last = step.Instruction
	o.logger.Debug("instruction observed",
		"address", fmt.Sprintf("0x%08x", n.Address),
		"mnemonic", step.Instruction.Mnemonic(),
		"format", step.Instruction.Format())
	return nil
}

// prepare resolves the instruction at address and samples the registers
// without touching observer or tool state.
func (o *Observer) prepare(address uint32) (Step, error) {
	instr, err := o.decoder.Resolve(address)
	if err != nil {
		var addrErr *asmparser.AddressError
		if errors.As(err, &addrErr) {
			o.logger.Warn("skipping notification", "address", fmt.Sprintf("0x%08x", address), "error", err)
		} else {
			o.logger.Error("decoder failed", "address", fmt.Sprintf("0x%08x", address), "error", err)
		}
		return Step{}, fmt.Errorf("resolving 0x%08x: %w", address, err)
	}

	step := Step{Instruction: instr, Previous: o.last}
	before, ok, err := o.recorder.Capture(instr)
	if err != nil {
		o.logger.Error("register field extraction failed", "address", fmt.Sprintf("0x%08x", address), "error", err)
		return Step{}, err
	}
	if ok {
		step.Before = &before
	}

	if o.last != nil {
		after, ok, err := o.recorder.Capture(o.last)
		if err != nil {
			o.logger.Error("register field extraction failed", "address", fmt.Sprintf("0x%08x", o.last.Address()), "error", err)
			return Step{}, err
		}
		if ok {
			step.After = &after
		}
	}
	return step, nil
}

// Reset returns the observer to Idle and resets every tool.
func (o *Observer) Reset() {
	o.last = nil
	for _, tool := range o.tools {
		tool.Reset()
	}
}

// State returns Idle until the first instruction has been observed.
func (o *Observer) State() State {
	if o.last == nil {
		return Idle
	}
	return Tracking
}

// LastAddress returns the address of the most recently observed instruction.
func (o *Observer) LastAddress() (uint32, bool) {
	if o.last == nil {
		return 0, false
	}
	return o.last.Address(), true
}

// Tools returns the attached tools.
func (o *Observer) Tools() []Tool {
	return o.tools
}

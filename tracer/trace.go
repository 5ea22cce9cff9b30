package tracer

import (
	"fmt"
	"strings"

	"github.com/ChainSafe/vm-observer/asmparser"
)

const (
	columnGap    = "       "
	codeWidth    = 32
	headerWidth  = 50
	sourceWidth  = 25
	valueWidth   = 25
	headerCode   = "Instruction Code"
	headerSource = "Instruction"
	headerBefore = "Initial Value"
	headerAfter  = "Updated Value"
)

// Line is the trace of one instruction.
type Line struct {
	Address uint32    `json:"address"`
	Binary  string    `json:"binary"`
	Source  string    `json:"source"`
	Before  *Snapshot `json:"before,omitempty"`
	After   *Snapshot `json:"after,omitempty"`
}

func (l Line) String() string {
	var b strings.Builder
	b.WriteString(centerPad(l.Binary, codeWidth))
	b.WriteString(columnGap)
	b.WriteString(rightPad(l.Source, sourceWidth))
	if l.Before != nil {
		b.WriteString(columnGap)
		b.WriteString(rightPad(l.Before.String(), valueWidth))
	}
	if l.After != nil {
		b.WriteString(columnGap)
		b.WriteString(rightPad(l.After.String(), valueWidth))
	}
	return b.String()
}

// Trace accumulates one Line per observed instruction. The last line stays
// open until the next instruction is observed.
type Trace struct {
	lines   []Line
	pending *Line
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Begin opens the line of instr with the value sampled before it executes.
// An open line is finished without an updated value.
func (t *Trace) Begin(instr asmparser.Instruction, before *Snapshot) {
	if t.pending != nil {
		t.Finish(nil)
	}
	t.pending = &Line{
		Address: instr.Address(),
		Binary:  strings.TrimSpace(instr.Binary()),
		Source:  strings.TrimSpace(instr.Source()),
		Before:  before,
	}
}

// Finish closes the open line with the value sampled after execution.
func (t *Trace) Finish(after *Snapshot) {
	if t.pending == nil {
		return
	}
	line := *t.pending
	line.After = after
	t.lines = append(t.lines, line)
	t.pending = nil
}

// Lines returns the finished lines.
func (t *Trace) Lines() []Line {
	return append([]Line(nil), t.lines...)
}

// Pending returns the open line, if any.
func (t *Trace) Pending() (Line, bool) {
	if t.pending == nil {
		return Line{}, false
	}
	return *t.pending, true
}

// Len returns the number of finished lines.
func (t *Trace) Len() int {
	return len(t.lines)
}

// Reset drops every line.
func (t *Trace) Reset() {
	t.lines = nil
	t.pending = nil
}

// String renders the header followed by every line, the open one last.
func (t *Trace) String() string {
	var b strings.Builder
	b.WriteString(Header())
	for _, line := range t.lines {
		b.WriteString(line.String())
		b.WriteString("\n")
	}
	if t.pending != nil {
		b.WriteString(t.pending.String())
	}
	return b.String()
}

// Header returns the column titles followed by a blank line.
func Header() string {
	return fmt.Sprintf("%s%s%s%s%s%s%s\n\n",
		centerPad(headerCode, headerWidth), columnGap,
		centerPad(headerSource, sourceWidth), columnGap,
		centerPad(headerBefore, valueWidth), columnGap,
		centerPad(headerAfter, valueWidth))
}

// centerPad centres s in width columns. Strings of even length get one
// column less on the right. s is returned unchanged when it does not fit.
func centerPad(s string, width int) string {
	padding := (width - len(s)) / 2
	if padding <= 0 {
		return s
	}
	right := padding
	if len(s)%2 == 0 {
		right--
	}
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", right)
}

// rightPad left-aligns s in width columns.
func rightPad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}

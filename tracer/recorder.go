// Package tracer records the destination register of R-format and I-format
// instructions before and after they execute.
package tracer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ChainSafe/vm-observer/asmparser"
	"github.com/ChainSafe/vm-observer/registers"
)

// ErrMalformedEncoding is returned when the destination register field of a
// machine statement is not a 5-bit binary string. A correct decoder never
// produces one.
var ErrMalformedEncoding = errors.New("malformed encoding")

// Character offsets of the destination register field in the 32 character
// machine statement: rd for R-format, rt for I-format.
const (
	rDestinationOffset = 16
	iDestinationOffset = 11
	fieldWidth         = 5
	statementWidth     = 32
)

// Snapshot is the value of one register at a point in time.
type Snapshot struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Value int32  `json:"value"`
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%s %d", s.Name, s.Value)
}

// Recorder samples destination registers from a register store.
type Recorder struct {
	regs registers.Store
}

// NewRecorder returns a recorder reading from regs.
func NewRecorder(regs registers.Store) *Recorder {
	return &Recorder{regs: regs}
}

// Traces reports whether instructions of format have a traced destination register.
func Traces(format asmparser.Format) bool {
	return format == asmparser.RFormat || format == asmparser.IFormat
}

// DestinationIndex extracts the destination register index from the
// machine statement of an R-format or I-format instruction.
func DestinationIndex(instr asmparser.Instruction) (int, error) {
	var offset int
	switch instr.Format() {
	case asmparser.RFormat:
		offset = rDestinationOffset
	case asmparser.IFormat:
		offset = iDestinationOffset
	default:
		return 0, fmt.Errorf("no destination register for %s instruction at 0x%08x", instr.Format(), instr.Address())
	}

	binary := instr.Binary()
	if len(binary) != statementWidth {
		return 0, fmt.Errorf("%w: statement %q at 0x%08x is %d characters", ErrMalformedEncoding, binary, instr.Address(), len(binary))
	}
	field := binary[offset : offset+fieldWidth]
	index, err := strconv.ParseUint(field, 2, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: register field %q at 0x%08x", ErrMalformedEncoding, field, instr.Address())
	}
	return int(index), nil
}

// Capture samples the destination register of instr. The second result is
// false for formats without a traced destination register.
func (r *Recorder) Capture(instr asmparser.Instruction) (Snapshot, bool, error) {
	if !Traces(instr.Format()) {
		return Snapshot{}, false, nil
	}
	index, err := DestinationIndex(instr)
	if err != nil {
		return Snapshot{}, false, err
	}
	return Snapshot{
		Index: index,
		Name:  r.regs.Name(index),
		Value: r.regs.Value(index),
	}, true, nil
}

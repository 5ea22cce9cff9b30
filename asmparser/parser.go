// Package asmparser defines the decoded instruction model shared by the
// observer and the decoders that feed it.
package asmparser

import "fmt"

// Format is the MIPS encoding format of an instruction.
type Format string

const (
	RFormat       Format = "R-Format"
	IFormat       Format = "I-Format"
	IBranchFormat Format = "I-Branch-Format"
	JFormat       Format = "J-Format"
	OtherFormat   Format = "Other"
)

// Instruction is a decoded statement of the loaded program. Implementations are immutable.
type Instruction interface {
	Address() uint32
	Encoding() uint32
	// Binary returns the 32 character machine statement, most significant bit first.
	Binary() string
	Mnemonic() string
	// Source returns the original source text of the statement.
	Source() string
	Format() Format
}

// Decoder resolves addresses of the loaded program to instructions.
type Decoder interface {
	// Resolve returns the instruction at address, or an *AddressError when
	// the address does not hold a statement.
	Resolve(address uint32) (Instruction, error)
}

// AddressError reports an address the decoder cannot resolve.
type AddressError struct {
	Address uint32
	Reason  string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("address error at 0x%08x: %s", e.Address, e.Reason)
}

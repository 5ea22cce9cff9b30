package mips

import (
	"fmt"
	"strings"

	"github.com/ChainSafe/vm-observer/asmparser"
)

// Constants defining MIPS opcodes that select the instruction format.
const (
	opcodeSpecial  = 0x00
	opcodeRegImm   = 0x01
	opcodeJ        = 0x02
	opcodeJAL      = 0x03
	opcodeCop0     = 0x10
	opcodeCop1     = 0x11
	opcodeSpecial2 = 0x1c

	cop1BranchRS = 0x08 // bc1t, bc1f
)

// instruction is an immutable MIPS statement implementing asmparser.Instruction.
type instruction struct {
	address  uint32
	encoding uint32
	mnemonic string
	source   string
	format   asmparser.Format
}

// NewInstruction builds an instruction, deriving its format from the encoding.
// An empty source falls back to the mnemonic.
func NewInstruction(address, encoding uint32, mnemonic, source string) asmparser.Instruction {
	mnemonic = strings.TrimSpace(mnemonic)
	source = strings.TrimSpace(source)
	if source == "" {
		source = mnemonic
	}
	return &instruction{
		address:  address,
		encoding: encoding,
		mnemonic: mnemonic,
		source:   source,
		format:   FormatOf(encoding),
	}
}

func (i *instruction) Address() uint32 {
	return i.address
}

func (i *instruction) Encoding() uint32 {
	return i.encoding
}

func (i *instruction) Binary() string {
	return fmt.Sprintf("%032b", i.encoding)
}

func (i *instruction) Mnemonic() string {
	return i.mnemonic
}

func (i *instruction) Source() string {
	return i.source
}

func (i *instruction) Format() asmparser.Format {
	return i.format
}

func (i *instruction) String() string {
	return fmt.Sprintf("0x%08x: %s", i.address, i.source)
}

//    6      5     5     5     5      6 bits
// [  op  |  rs |  rt |  rd |shamt| funct]  R-type
// [  op  |  rs |  rt | address/immediate]  I-type
// [  op  |        target address        ]  J-type
// https://en.wikibooks.org/wiki/MIPS_Assembly/Instruction_Formats

// FormatOf returns the encoding format of a 32-bit MIPS instruction.
// Coprocessor moves and arithmetic are R-format, matching how MARS tags them.
func FormatOf(encoding uint32) asmparser.Format {
	opcode := (encoding >> 26) & 0x3F
	switch opcode {
	case opcodeSpecial, opcodeSpecial2, opcodeCop0:
		return asmparser.RFormat
	case opcodeCop1:
		if (encoding>>21)&0x1F == cop1BranchRS {
			return asmparser.IBranchFormat
		}
		return asmparser.RFormat
	case opcodeJ, opcodeJAL:
		return asmparser.JFormat
	case opcodeRegImm, 0x04, 0x05, 0x06, 0x07, 0x14, 0x15, 0x16, 0x17: // bltz.., beq, bne, blez, bgtz and likely variants
		return asmparser.IBranchFormat
	default:
		return asmparser.IFormat
	}
}

var specialFunct = map[uint32]string{
	0x00: "sll", 0x02: "srl", 0x03: "sra", 0x04: "sllv", 0x06: "srlv", 0x07: "srav",
	0x08: "jr", 0x09: "jalr", 0x0a: "movz", 0x0b: "movn", 0x0c: "syscall", 0x0d: "break",
	0x10: "mfhi", 0x11: "mthi", 0x12: "mflo", 0x13: "mtlo",
	0x18: "mult", 0x19: "multu", 0x1a: "div", 0x1b: "divu",
	0x20: "add", 0x21: "addu", 0x22: "sub", 0x23: "subu",
	0x24: "and", 0x25: "or", 0x26: "xor", 0x27: "nor", 0x2a: "slt", 0x2b: "sltu",
}

var special2Funct = map[uint32]string{
	0x00: "madd", 0x01: "maddu", 0x02: "mul", 0x04: "msub", 0x05: "msubu", 0x20: "clz", 0x21: "clo",
}

var regImmRT = map[uint32]string{
	0x00: "bltz", 0x01: "bgez", 0x10: "bltzal", 0x11: "bgezal",
}

var opcodes = map[uint32]string{
	0x02: "j", 0x03: "jal",
	0x04: "beq", 0x05: "bne", 0x06: "blez", 0x07: "bgtz",
	0x08: "addi", 0x09: "addiu", 0x0a: "slti", 0x0b: "sltiu",
	0x0c: "andi", 0x0d: "ori", 0x0e: "xori", 0x0f: "lui",
	0x20: "lb", 0x21: "lh", 0x22: "lwl", 0x23: "lw", 0x24: "lbu", 0x25: "lhu", 0x26: "lwr",
	0x28: "sb", 0x29: "sh", 0x2a: "swl", 0x2b: "sw", 0x2e: "swr",
	0x30: "ll", 0x31: "lwc1", 0x35: "ldc1", 0x38: "sc", 0x39: "swc1", 0x3d: "sdc1",
}

// BasicMnemonic returns the name of the basic instruction in encoding,
// independent of the alias a disassembler printed for it (beqz, move, li).
// The second result is false for encodings outside the decoded subset.
func BasicMnemonic(encoding uint32) (string, bool) {
	if encoding == 0 {
		return "nop", true
	}
	var (
		name string
		ok   bool
	)
	switch opcode := (encoding >> 26) & 0x3F; opcode {
	case opcodeSpecial:
		name, ok = specialFunct[encoding&0x3F]
	case opcodeSpecial2:
		name, ok = special2Funct[encoding&0x3F]
	case opcodeRegImm:
		name, ok = regImmRT[(encoding>>16)&0x1F]
	default:
		name, ok = opcodes[opcode]
	}
	return name, ok
}

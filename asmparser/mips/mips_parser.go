// Package mips provides the implementation of the asmparser interfaces for MIPS architecture.
package mips

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/ChainSafe/vm-observer/asmparser"
)

var (
	// Regular expressions for parsing llvm-objdump/objdump style listings.
	blockStartRegex  = regexp.MustCompile(`^([0-9a-fA-F]+)\s+<([^>]+)>:$`)
	instructionRegex = regexp.MustCompile(`^([0-9a-fA-F]+):\s+((?:[0-9a-fA-F]{2}\s+){3}[0-9a-fA-F]{2}|[0-9a-fA-F]{8})\s+([a-z][a-z0-9]*(?:\.[a-z0-9]+)*)\s*(.*)$`)
	fileFormatRegex  = regexp.MustCompile(`file format (\S+)$`)
	// MARS text segment dump: address, code, basic statement and an optional "line source" column.
	marsRegex = regexp.MustCompile(`^0x([0-9a-fA-F]{8})\s+0x([0-9a-fA-F]{8})\s+([a-z][a-z0-9]*(?:\.[a-z0-9]+)*)(?:\s+(.*?))?(?:\s+\d+:?\s+(.*))?$`)
)

// Load reads and parses a MIPS listing file.
func Load(path string) (*Program, error) {
	fpath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving absolute filepath: %w", err)
	}

	codefile, err := os.Open(fpath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		_ = codefile.Close()
	}()
	return ParseListing(codefile)
}

// ParseListing parses objdump or MARS text segment listings from r.
func ParseListing(r io.Reader) (*Program, error) {
	prog := newProgram()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	littleEndian := false
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case fileFormatRegex.MatchString(line):
			littleEndian = isLittleEndian(fileFormatRegex.FindStringSubmatch(line)[1])
		case blockStartRegex.MatchString(line):
			addr, name, err := parseSegmentStart(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			prog.labels[addr] = name
		case marsRegex.MatchString(line):
			instr, err := parseMarsStatement(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			if err := prog.add(instr); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case instructionRegex.MatchString(line):
			instr, err := parseObjdumpStatement(line, littleEndian)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			if err := prog.add(instr); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		default: // Ignore comments, headers and unrecognized lines
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading listing: %w", err)
	}
	if len(prog.addresses) == 0 {
		return nil, fmt.Errorf("listing contains no instructions")
	}
	prog.sort()
	return prog, nil
}

// parseSegmentStart extracts segment information from a line.
func parseSegmentStart(line string) (uint32, string, error) {
	matches := blockStartRegex.FindStringSubmatch(line)
	if len(matches) != 3 {
		return 0, "", fmt.Errorf("failed to parse segment start: %s", line)
	}
	addr, err := parseAddress(matches[1])
	if err != nil {
		return 0, "", fmt.Errorf("invalid segment address: %w", err)
	}
	return addr, matches[2], nil
}

// isLittleEndian reports whether an objdump file format names a
// little-endian MIPS target, e.g. elf32-tradlittlemips or elf32-mipsel.
func isLittleEndian(format string) bool {
	return strings.Contains(format, "little") || strings.HasSuffix(format, "mipsel")
}

// parseObjdumpStatement extracts instruction information from an objdump line.
// Byte-split encodings are printed in memory order and are reassembled
// according to the target endianness. The mnemonic is taken from the
// encoding so aliases such as beqz or move classify as their basic instruction.
func parseObjdumpStatement(line string, littleEndian bool) (asmparser.Instruction, error) {
	matches := instructionRegex.FindStringSubmatch(line)
	if len(matches) != 5 {
		return nil, fmt.Errorf("failed to parse instruction: %s", line)
	}
	addr, err := parseAddress(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid instruction address: %w", err)
	}
	fields := strings.Fields(matches[2])
	if littleEndian && len(fields) == 4 {
		slices.Reverse(fields)
	}
	encoding, err := decodeHex(strings.Join(fields, ""))
	if err != nil {
		return nil, err
	}
	source := matches[3]
	if operands := strings.TrimSpace(matches[4]); operands != "" {
		source += " " + operands
	}
	mnemonic := matches[3]
	if basic, ok := BasicMnemonic(encoding); ok {
		mnemonic = basic
	}
	return NewInstruction(addr, encoding, mnemonic, source), nil
}

// parseMarsStatement extracts instruction information from a MARS dump line.
func parseMarsStatement(line string) (asmparser.Instruction, error) {
	matches := marsRegex.FindStringSubmatch(line)
	if len(matches) != 6 {
		return nil, fmt.Errorf("failed to parse instruction: %s", line)
	}
	addr, err := parseAddress(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid instruction address: %w", err)
	}
	encoding, err := decodeHex(matches[2])
	if err != nil {
		return nil, err
	}
	source := strings.TrimSpace(matches[5])
	if source == "" {
		source = strings.TrimSpace(matches[3] + " " + matches[4])
	}
	return NewInstruction(addr, encoding, matches[3], source), nil
}

func parseAddress(str string) (uint32, error) {
	addr, err := strconv.ParseUint(str, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(addr), nil
}

// decodeHex parses a hexadecimal MIPS machine word.
func decodeHex(str string) (uint32, error) {
	word, err := strconv.ParseUint(str, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse hex instruction: %w", err)
	}
	return uint32(word), nil
}

// Program is a loaded text segment. It implements asmparser.Decoder.
type Program struct {
	statements map[uint32]asmparser.Instruction
	labels     map[uint32]string
	addresses  []uint32
}

func newProgram() *Program {
	return &Program{
		statements: make(map[uint32]asmparser.Instruction),
		labels:     make(map[uint32]string),
	}
}

// NewProgram builds a program from already decoded instructions.
func NewProgram(instrs ...asmparser.Instruction) (*Program, error) {
	prog := newProgram()
	for _, instr := range instrs {
		if err := prog.add(instr); err != nil {
			return nil, err
		}
	}
	prog.sort()
	return prog, nil
}

func (p *Program) add(instr asmparser.Instruction) error {
	if instr.Address()%4 != 0 {
		return fmt.Errorf("instruction at 0x%08x is not word aligned", instr.Address())
	}
	if _, exists := p.statements[instr.Address()]; exists {
		return fmt.Errorf("duplicate instruction at 0x%08x", instr.Address())
	}
	p.statements[instr.Address()] = instr
	p.addresses = append(p.addresses, instr.Address())
	return nil
}

func (p *Program) sort() {
	sort.Slice(p.addresses, func(i, j int) bool { return p.addresses[i] < p.addresses[j] })
}

// Resolve returns the statement at address.
func (p *Program) Resolve(address uint32) (asmparser.Instruction, error) {
	if address%4 != 0 {
		return nil, &asmparser.AddressError{Address: address, Reason: "address not aligned on word boundary"}
	}
	instr, ok := p.statements[address]
	if !ok {
		return nil, &asmparser.AddressError{Address: address, Reason: "no statement at address"}
	}
	return instr, nil
}

// Instructions lists the statements in address order.
func (p *Program) Instructions() []asmparser.Instruction {
	instrs := make([]asmparser.Instruction, len(p.addresses))
	for i, addr := range p.addresses {
		instrs[i] = p.statements[addr]
	}
	return instrs
}

// Label returns the segment label starting at address, if any.
func (p *Program) Label(address uint32) (string, bool) {
	label, ok := p.labels[address]
	return label, ok
}

// Bounds returns the lowest and highest statement address.
func (p *Program) Bounds() (uint32, uint32) {
	if len(p.addresses) == 0 {
		return 0, 0
	}
	return p.addresses[0], p.addresses[len(p.addresses)-1]
}

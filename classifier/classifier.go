// Package classifier maps decoded instructions onto the closed category sets
// counted by the R-type and I-type instruction counters.
package classifier

import (
	"slices"
	"strings"

	"github.com/ChainSafe/vm-observer/asmparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Category is the classification of a single instruction.
type Category string

// R-format categories.
const (
	Add          Category = "Add"
	And          Category = "And"
	Div          Category = "Div"
	JumpRegister Category = "JumpRegister"
	Mult         Category = "Mult"
	Nor          Category = "Nor"
	Xor          Category = "Xor"
	Or           Category = "Or"
	SetLessThan  Category = "SetLessThan"
	ShiftLeft    Category = "ShiftLeft"
	ShiftRight   Category = "ShiftRight"
	Subtract     Category = "Subtract"
)

// I-format categories.
const (
	AddImmediate         Category = "AddImmediate"
	AndImmediate         Category = "AndImmediate"
	BranchEqual          Category = "BranchEqual"
	BranchNotEqual       Category = "BranchNotEqual"
	LoadByte             Category = "LoadByte"
	LoadWord             Category = "LoadWord"
	OrImmediate          Category = "OrImmediate"
	StoreByte            Category = "StoreByte"
	SetLessThanImmediate Category = "SetLessThanImmediate"
	StoreWord            Category = "StoreWord"
)

// Other collects every mnemonic of the target format without its own category.
const Other Category = "Other"

type entry struct {
	mnemonic string
	category Category
	label    string
}

// https://en.wikibooks.org/wiki/MIPS_Assembly/Instruction_Formats#R_Format
var rTypeEntries = []entry{
	{"add", Add, "Add"},
	{"and", And, "Bitwise AND"},
	{"div", Div, "Divide"},
	{"jr", JumpRegister, "Jump to Address in Register"},
	{"mult", Mult, "Multiply"},
	{"nor", Nor, "Bitwise NOR (NOT-OR)"},
	{"xor", Xor, "Bitwise XOR (Exclusive-OR)"},
	{"or", Or, "Bitwise OR"},
	{"slt", SetLessThan, "Set to 1 if Less Than"},
	{"sll", ShiftLeft, "Logical Shift Left"},
	{"srl", ShiftRight, "Logical Shift Right (0-extended)"},
	{"sub", Subtract, "Subtract"},
}

var iTypeEntries = []entry{
	{"addi", AddImmediate, "Add Immediate"},
	{"andi", AndImmediate, "Bitwise AND Immediate"},
	{"beq", BranchEqual, "Branch if Equal"},
	{"bne", BranchNotEqual, "Branch if Not Equal"},
	{"lb", LoadByte, "Load Byte"},
	{"lw", LoadWord, "Load Word"},
	{"ori", OrImmediate, "Bitwise OR Immediate"},
	{"sb", StoreByte, "Store Byte"},
	{"slti", SetLessThanImmediate, "Set to 1 if Less Than Immediate"},
	{"sw", StoreWord, "Store Word"},
}

// Classifier assigns categories to instructions of its target formats.
type Classifier struct {
	name     string
	formats  []asmparser.Format
	mnemonic *orderedmap.OrderedMap[string, Category]
	labels   *orderedmap.OrderedMap[Category, string]
}

func newClassifier(name string, entries []entry, formats ...asmparser.Format) *Classifier {
	c := &Classifier{
		name:     name,
		formats:  formats,
		mnemonic: orderedmap.New[string, Category](),
		labels:   orderedmap.New[Category, string](),
	}
	for _, e := range entries {
		c.mnemonic.Set(e.mnemonic, e.category)
		c.labels.Set(e.category, e.label)
	}
	c.labels.Set(Other, "Other")
	return c
}

// NewRType returns the classifier of the R-type instruction counter.
func NewRType() *Classifier {
	return newClassifier("R-Type", rTypeEntries, asmparser.RFormat)
}

// NewIType returns the classifier of the I-type instruction counter.
// Branches encoded in I-format are counted as I-type.
func NewIType() *Classifier {
	return newClassifier("I-Type", iTypeEntries, asmparser.IFormat, asmparser.IBranchFormat)
}

// Name returns the instruction class counted, e.g. "R-Type".
func (c *Classifier) Name() string {
	return c.name
}

// Accepts reports whether instructions of format take part in this classification.
func (c *Classifier) Accepts(format asmparser.Format) bool {
	return slices.Contains(c.formats, format)
}

// Classify returns the category of instr. The second result is false when
// the instruction's format is not a target of this classifier.
func (c *Classifier) Classify(instr asmparser.Instruction) (Category, bool) {
	if !c.Accepts(instr.Format()) {
		return "", false
	}
	if cat, ok := c.mnemonic.Get(strings.TrimSpace(instr.Mnemonic())); ok {
		return cat, true
	}
	return Other, true
}

// Categories lists the categories in display order, Other last.
func (c *Classifier) Categories() []Category {
	cats := make([]Category, 0, c.labels.Len())
	for pair := c.labels.Oldest(); pair != nil; pair = pair.Next() {
		cats = append(cats, pair.Key)
	}
	return cats
}

// Label returns the human readable description of cat.
func (c *Classifier) Label(cat Category) string {
	if label, ok := c.labels.Get(cat); ok {
		return label
	}
	return string(cat)
}

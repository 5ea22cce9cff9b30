package classifier

import (
	"testing"

	"github.com/ChainSafe/vm-observer/asmparser/mips"
	"github.com/stretchr/testify/assert"
)

func TestClassifyRType(t *testing.T) {
	c := NewRType()
	cases := map[string]struct {
		encoding uint32
		mnemonic string
		want     Category
		ok       bool
	}{
		"add":        {0x00620820, "add", Add, true},
		"jr":         {0x03e00008, "jr", JumpRegister, true},
		"sll":        {0x00095080, "sll", ShiftLeft, true},
		"padded":     {0x01095027, " nor ", Nor, true},
		"addu":       {0x00851021, "addu", Other, true},
		"syscall":    {0x0000000c, "syscall", Other, true},
		"addi":       {0x20080005, "addi", "", false},
		"beq":        {0x11090002, "beq", "", false},
		"j":          {0x08100000, "j", "", false},
		"wrong form": {0x20080005, "add", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cat, ok := c.Classify(mips.NewInstruction(0x00400000, tc.encoding, tc.mnemonic, ""))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, cat)
		})
	}
}

func TestClassifyIType(t *testing.T) {
	c := NewIType()
	cases := map[string]struct {
		encoding uint32
		mnemonic string
		want     Category
		ok       bool
	}{
		"addi":  {0x20080005, "addi", AddImmediate, true},
		"beq":   {0x11090002, "beq", BranchEqual, true},
		"bne":   {0x15090002, "bne", BranchNotEqual, true},
		"lw":    {0x8fa90000, "lw", LoadWord, true},
		"sw":    {0xafa90004, "sw", StoreWord, true},
		"lui":   {0x3c011001, "lui", Other, true},
		"blez":  {0x19000002, "blez", Other, true},
		"addiu": {0x27bdfff8, "addiu", Other, true},
		"add":   {0x00620820, "add", "", false},
		"jal":   {0x0c100000, "jal", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cat, ok := c.Classify(mips.NewInstruction(0x00400000, tc.encoding, tc.mnemonic, ""))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, cat)
		})
	}
}

func TestCategories(t *testing.T) {
	r := NewRType()
	cats := r.Categories()
	assert.Equal(t, 13, len(cats))
	assert.Equal(t, Add, cats[0])
	assert.Equal(t, Other, cats[len(cats)-1])
	assert.Equal(t, "Jump to Address in Register", r.Label(JumpRegister))
	assert.Equal(t, "R-Type", r.Name())

	i := NewIType()
	assert.Equal(t, 11, len(i.Categories()))
	assert.Equal(t, "Set to 1 if Less Than Immediate", i.Label(SetLessThanImmediate))
	assert.Equal(t, "Add", i.Label(Add))
}

func TestCounter(t *testing.T) {
	c := NewRType()
	counter := NewCounter(c)

	for _, p := range []Entry{{Category: Add}, {Category: Add}, {Category: JumpRegister}} {
		assert.True(t, counter.Add(p.Category))
	}
	assert.False(t, counter.Add(AddImmediate))

	assert.Equal(t, 3, counter.Total())
	assert.Equal(t, 2, counter.Count(Add))
	assert.Equal(t, 66, counter.Percent(Add))
	assert.Equal(t, 33, counter.Percent(JumpRegister))
	assert.Equal(t, 0, counter.Percent(Or))

	sum := 0
	entries := counter.Entries()
	for _, e := range entries {
		sum += e.Count
	}
	assert.Equal(t, counter.Total(), sum)
	assert.Equal(t, Add, entries[0].Category)
	assert.Equal(t, 66, entries[0].Percent)

	counter.Reset()
	assert.Equal(t, 0, counter.Total())
	assert.Equal(t, 0, counter.Count(Add))
	assert.Equal(t, 0, counter.Percent(Add))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 100, Percent(3, 3))
	assert.Equal(t, 14, Percent(1, 7))
}

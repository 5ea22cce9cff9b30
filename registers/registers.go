// Package registers implements the general purpose register file the
// observer samples values from.
package registers

import (
	"fmt"
	"strconv"
	"strings"
)

// Count is the number of MIPS general purpose registers.
const Count = 32

var names = [Count]string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

// Store is the read-only view of a register file.
type Store interface {
	Value(index int) int32
	Name(index int) string
}

// File holds the values of the 32 general purpose registers.
type File struct {
	values [Count]int32
}

// NewFile returns a register file with every register cleared.
func NewFile() *File {
	return &File{}
}

// Value returns the current value of register index.
// It panics if index is outside 0-31.
func (f *File) Value(index int) int32 {
	return f.values[index]
}

// Name returns the symbolic name of register index, e.g. "$t0".
func (f *File) Name(index int) string {
	return Name(index)
}

// Set writes value to register index. Writes to $zero are discarded.
func (f *File) Set(index int, value int32) error {
	if index < 0 || index >= Count {
		return fmt.Errorf("register index out of range: %d", index)
	}
	if index == 0 {
		return nil
	}
	f.values[index] = value
	return nil
}

// Reset clears every register.
func (f *File) Reset() {
	f.values = [Count]int32{}
}

// Snapshot returns a copy of all register values.
func (f *File) Snapshot() [Count]int32 {
	return f.values
}

// Name returns the symbolic name of register index.
func Name(index int) string {
	if index < 0 || index >= Count {
		return ""
	}
	return names[index]
}

// Lookup resolves "$t0", "t0", "$8" or "8" to a register index.
func Lookup(reg string) (int, error) {
	s := strings.TrimPrefix(strings.TrimSpace(reg), "$")
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= Count {
			return 0, fmt.Errorf("register number out of range: %s", reg)
		}
		return n, nil
	}
	if s == "s8" { // alias of $fp
		return 30, nil
	}
	for i, name := range names {
		if name[1:] == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown register: %s", reg)
}

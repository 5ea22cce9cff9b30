package disassembler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeObjdump = `#!/bin/sh
echo "$4:     file format elf32-tradbigmips"
echo
echo "Disassembly of section .text:"
echo
echo "00400000 <main>:"
echo "  400000:	20080005 	addi	t0,zero,5"
`

func TestDisassemble(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "mips-objdump")
	require.NoError(t, os.WriteFile(tool, []byte(fakeObjdump), 0700))
	out := filepath.Join(dir, "listing.asm")

	listing, err := New(tool).Disassemble(context.Background(), "program.elf", out)
	require.NoError(t, err)
	assert.Contains(t, listing, "program.elf:     file format")
	assert.Contains(t, listing, "400000:	20080005")

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, listing, string(written))
}

func TestDisassembleMissingTool(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing")).Disassemble(context.Background(), "program.elf", "")
	assert.ErrorContains(t, err, "failed to generate binary disassembly")
}

func TestDefaultTool(t *testing.T) {
	assert.Equal(t, DefaultTool, New("").Tool)
}

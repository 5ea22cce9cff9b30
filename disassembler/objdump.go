// Package disassembler produces MIPS listings from compiled binaries.
package disassembler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultTool is the objdump binary used when none is configured.
const DefaultTool = "objdump"

// Objdump disassembles binaries with an objdump compatible tool, such as
// mips-linux-gnu-objdump or llvm-objdump.
type Objdump struct {
	Tool string
}

func New(tool string) *Objdump {
	if tool == "" {
		tool = DefaultTool
	}
	return &Objdump{Tool: tool}
}

// Disassemble returns the disassembly of the text section of target. When
// outputPath is set the listing is also written there.
func (o *Objdump) Disassemble(ctx context.Context, target, outputPath string) (string, error) {
	absPath, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}

	//nolint:gosec
	cmd := exec.CommandContext(ctx, o.Tool, "-d", "-j", ".text", absPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to generate binary disassembly: %w\nOutput:\n%s", err, string(output))
	}

	if outputPath != "" {
		absOutputPath, err := filepath.Abs(outputPath)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path of output file: %w", err)
		}
		err = os.WriteFile(absOutputPath, output, 0600)
		if err != nil {
			return "", fmt.Errorf("failed to write to output file: %w", err)
		}
	}
	return string(output), nil
}

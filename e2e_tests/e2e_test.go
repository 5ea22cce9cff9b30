//go:build integration

package e2etest

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/ChainSafe/vm-observer/classifier"
	"github.com/ChainSafe/vm-observer/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	binary      = "../bin/vm-observer"
	testdataDir = "testdata"
)

func run(t *testing.T, args ...string) *bytes.Buffer {
	cmd := exec.Command(binary, args...)

	var out bytes.Buffer
	var errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to run CLI: %v. errorOutput: %s", err, errOut.String())
	}
	return &out
}

func runJSON(t *testing.T, profile, command string) *renderer.Report {
	out := run(t, command,
		"--profile", profile,
		"--listing", filepath.Join(testdataDir, "sum", "program.txt"),
		"--format", "json",
		filepath.Join(testdataDir, "sum", "session.log"))

	var report renderer.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	return &report
}

func TestCountLoop(t *testing.T) {
	report := runJSON(t, "../profile/mars/mars.yaml", "count")
	require.Equal(t, 2, len(report.Counters))

	counts := map[classifier.Category]int{}
	for _, c := range report.Counters {
		for _, cat := range c.Categories {
			counts[cat.Category] += cat.Count
		}
	}
	assert.Equal(t, 5, report.Counters[0].Total)
	assert.Equal(t, 7, report.Counters[1].Total)
	assert.Equal(t, 4, counts[classifier.Add])
	assert.Equal(t, 1, counts[classifier.JumpRegister])
	assert.Equal(t, 4, counts[classifier.AddImmediate])
	assert.Equal(t, 3, counts[classifier.BranchNotEqual])
	assert.Equal(t, 0, report.Skipped)
}

func TestTraceLoop(t *testing.T) {
	report := runJSON(t, "../profile/mars/mars.yaml", "trace")
	require.Equal(t, 1, len(report.Traces))

	lines := report.Traces[0].Lines
	require.Equal(t, 11, len(lines))
	assert.Equal(t, int32(3), lines[0].After.Value)
	assert.Equal(t, int32(6), lines[8].After.Value)
	assert.Nil(t, lines[4].Before)
	require.NotNil(t, report.Traces[0].Pending)
	assert.Equal(t, "jr   $ra", report.Traces[0].Pending.Source)
}

func TestCountersProfile(t *testing.T) {
	report := runJSON(t, "../profile/mars/counters.json", "run")
	assert.Equal(t, "mars-counters", report.Profile)
	assert.Equal(t, 2, len(report.Counters))
	assert.Empty(t, report.Traces)
}

func TestList(t *testing.T) {
	out := run(t, "list", "--listing", filepath.Join(testdataDir, "sum", "program.txt"))
	assert.Contains(t, out.String(), "0x00400010  0x1500fffd  I-Branch-Format")
}

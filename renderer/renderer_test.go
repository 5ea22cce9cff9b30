package renderer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ChainSafe/vm-observer/asmparser/mips"
	"github.com/ChainSafe/vm-observer/classifier"
	"github.com/ChainSafe/vm-observer/observer"
	"github.com/ChainSafe/vm-observer/registers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) *Report {
	prog, err := mips.NewProgram(
		mips.NewInstruction(0x00400000, 0x20080005, "addi", "addi $t0,$zero,5"),
		mips.NewInstruction(0x00400004, 0x01084820, "add", "add $t1,$t0,$t0"),
		mips.NewInstruction(0x00400008, 0x03e00008, "jr", "jr $ra"),
	)
	require.NoError(t, err)
	r := observer.NewRTypeCounter()
	i := observer.NewITypeCounter()
	trace := observer.NewTraceTool()
	obs := observer.New(prog, registers.NewFile(), observer.WithTools(r, i, trace))
	for _, addr := range []uint32{0x00400000, 0x00400004, 0x00400008} {
		require.NoError(t, obs.Notify(observer.Notification{Address: addr}))
	}
	return NewReport("mars", 1, obs.Tools()...)
}

func TestNewReport(t *testing.T) {
	report := sampleReport(t)
	require.Equal(t, 2, len(report.Counters))
	require.Equal(t, 1, len(report.Traces))

	rtype := report.Counters[0]
	assert.Equal(t, observer.RTypeCounterName, rtype.Tool)
	assert.Equal(t, "R-Type", rtype.Class)
	assert.Equal(t, 2, rtype.Total)
	assert.Equal(t, 13, len(rtype.Categories))
	assert.Equal(t, CategoryCount{Category: classifier.Add, Label: "Add", Count: 1, Percent: 50}, rtype.Categories[0])

	itype := report.Counters[1]
	assert.Equal(t, 1, itype.Total)
	assert.Equal(t, 100, itype.Categories[0].Percent)
	assert.Equal(t, 0, itype.Categories[1].Percent)

	trace := report.Traces[0]
	assert.Equal(t, 2, len(trace.Lines))
	require.NotNil(t, trace.Pending)
	assert.Equal(t, "jr $ra", trace.Pending.Source)
}

func TestTextRenderer(t *testing.T) {
	var out bytes.Buffer
	r := NewTextRenderer(false)
	assert.Equal(t, "text", r.Format())
	require.NoError(t, r.Render(sampleReport(t), &out))

	text := out.String()
	assert.Contains(t, text, "Profile: mars")
	assert.Contains(t, text, "Skipped notifications: 1")
	assert.Contains(t, text, observer.RTypeCounterName)
	assert.Contains(t, text, "Total R-Type Instructions:")
	assert.Contains(t, text, "Jump to Address in Register:")
	assert.Contains(t, text, "  50%")
	assert.Contains(t, text, "Instruction Code")
	assert.Contains(t, text, "addi $t0,$zero,5")
	assert.NotContains(t, text, "\x1b[")
}

func TestJSONRenderer(t *testing.T) {
	var out bytes.Buffer
	r := NewJSONRenderer()
	assert.Equal(t, "json", r.Format())
	require.NoError(t, r.Render(sampleReport(t), &out))

	var decoded Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "mars", decoded.Profile)
	assert.Equal(t, 2, decoded.Counters[0].Total)
	assert.Equal(t, classifier.JumpRegister, decoded.Counters[0].Categories[3].Category)
	assert.Equal(t, 1, decoded.Counters[0].Categories[3].Count)
	assert.Equal(t, int32(0), decoded.Traces[0].Lines[0].Before.Value)
	assert.Equal(t, "", decoded.Traces[0].Text)
}

package observer

import (
	"github.com/ChainSafe/vm-observer/classifier"
	"github.com/ChainSafe/vm-observer/tracer"
)

// Tool names, as shown in the MARS tools menu.
const (
	RTypeCounterName  = "R-Type Instruction Counter"
	ITypeCounterName  = "I-Type Instruction Counter"
	RegisterTraceName = "Change in Register's Value"
)

// CounterTool counts the categories of the instructions its classifier accepts.
type CounterTool struct {
	name       string
	classifier *classifier.Classifier
	counter    *classifier.Counter
}

// NewCounterTool returns a counter tool over c.
func NewCounterTool(name string, c *classifier.Classifier) *CounterTool {
	return &CounterTool{
		name:       name,
		classifier: c,
		counter:    classifier.NewCounter(c),
	}
}

// NewRTypeCounter returns the R-type instruction counter.
func NewRTypeCounter() *CounterTool {
	return NewCounterTool(RTypeCounterName, classifier.NewRType())
}

// NewITypeCounter returns the I-type instruction counter.
func NewITypeCounter() *CounterTool {
	return NewCounterTool(ITypeCounterName, classifier.NewIType())
}

func (t *CounterTool) Name() string {
	return t.name
}

func (t *CounterTool) Apply(step Step) {
	if cat, ok := t.classifier.Classify(step.Instruction); ok {
		t.counter.Add(cat)
	}
}

func (t *CounterTool) Reset() {
	t.counter.Reset()
}

// Classifier returns the classifier of the tool.
func (t *CounterTool) Classifier() *classifier.Classifier {
	return t.classifier
}

// Counter returns the running counts.
func (t *CounterTool) Counter() *classifier.Counter {
	return t.counter
}

// TraceTool records the destination register of each instruction before
// and after it executes.
type TraceTool struct {
	trace *tracer.Trace
}

// NewTraceTool returns an empty register trace tool.
func NewTraceTool() *TraceTool {
	return &TraceTool{trace: tracer.NewTrace()}
}

func (t *TraceTool) Name() string {
	return RegisterTraceName
}

func (t *TraceTool) Apply(step Step) {
	if step.Previous != nil {
		t.trace.Finish(step.After)
	}
	t.trace.Begin(step.Instruction, step.Before)
}

func (t *TraceTool) Reset() {
	t.trace.Reset()
}

// Trace returns the accumulated trace.
func (t *TraceTool) Trace() *tracer.Trace {
	return t.trace
}

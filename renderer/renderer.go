// Package renderer exposes observer counters and traces in different formats.
package renderer

import (
	"io"

	"github.com/ChainSafe/vm-observer/classifier"
	"github.com/ChainSafe/vm-observer/observer"
	"github.com/ChainSafe/vm-observer/tracer"
)

// Renderer defines the interface for rendering observer reports in different formats.
type Renderer interface {
	// Render writes the report to the provided writer in the desired format.
	Render(report *Report, output io.Writer) error

	// Format returns the name of the output format (e.g., "json", "text").
	Format() string
}

// Report is the state of every tool of an observer session.
type Report struct {
	Profile  string          `json:"profile"`
	Counters []CounterReport `json:"counters,omitempty"`
	Traces   []TraceReport   `json:"traces,omitempty"`
	Skipped  int             `json:"skipped"`
}

// CounterReport holds the counts of one instruction counter.
type CounterReport struct {
	Tool       string          `json:"tool"`
	Class      string          `json:"class"`
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// CategoryCount is one row of a counter report.
type CategoryCount struct {
	Category classifier.Category `json:"category"`
	Label    string              `json:"label"`
	Count    int                 `json:"count"`
	Percent  int                 `json:"percent"`
}

// TraceReport holds the lines of a register trace.
type TraceReport struct {
	Tool    string        `json:"tool"`
	Lines   []tracer.Line `json:"lines"`
	Pending *tracer.Line  `json:"pending,omitempty"`
	Text    string        `json:"-"`
}

// NewReport collects the current state of tools.
func NewReport(profileName string, skipped int, tools ...observer.Tool) *Report {
	report := &Report{Profile: profileName, Skipped: skipped}
	for _, tool := range tools {
		switch t := tool.(type) {
		case *observer.CounterTool:
			counter := t.Counter()
			cr := CounterReport{
				Tool:       t.Name(),
				Class:      t.Classifier().Name(),
				Total:      counter.Total(),
				Categories: make([]CategoryCount, 0),
			}
			for _, e := range counter.Entries() {
				cr.Categories = append(cr.Categories, CategoryCount{
					Category: e.Category,
					Label:    t.Classifier().Label(e.Category),
					Count:    e.Count,
					Percent:  e.Percent,
				})
			}
			report.Counters = append(report.Counters, cr)
		case *observer.TraceTool:
			tr := TraceReport{
				Tool:  t.Name(),
				Lines: t.Trace().Lines(),
				Text:  t.Trace().String(),
			}
			if pending, ok := t.Trace().Pending(); ok {
				tr.Pending = &pending
			}
			report.Traces = append(report.Traces, tr)
		}
	}
	return report
}

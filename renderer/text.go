package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// TextRenderer formats the report as a plain text summary.
type TextRenderer struct {
	colored bool
}

// NewTextRenderer creates a new instance of TextRenderer. Headings are
// coloured only when colored is set, typically when writing to a terminal.
func NewTextRenderer(colored bool) Renderer {
	return &TextRenderer{colored: colored}
}

// Render formats and writes the report.
func (r *TextRenderer) Render(report *Report, output io.Writer) error {
	heading := color.New(color.FgCyan, color.Bold)
	total := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	for _, c := range []*color.Color{heading, total, warn} {
		if r.colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var out strings.Builder

	out.WriteString("==============================\n")
	out.WriteString(heading.Sprintf("MIPS Instruction Observer Report"))
	out.WriteString("\n==============================\n")
	out.WriteString(fmt.Sprintf("Profile: %s\n", report.Profile))
	if report.Skipped > 0 {
		out.WriteString(warn.Sprintf("Skipped notifications: %d", report.Skipped))
		out.WriteString("\n")
	}
	out.WriteString("\n")

	for _, counter := range report.Counters {
		out.WriteString("------------------------------\n")
		out.WriteString(heading.Sprint(counter.Tool))
		out.WriteString("\n------------------------------\n")
		out.WriteString(total.Sprintf("%-36s %8d", fmt.Sprintf("Total %s Instructions:", counter.Class), counter.Total))
		out.WriteString("\n")
		for _, cat := range counter.Categories {
			out.WriteString(fmt.Sprintf("%-36s %8d %4d%%\n", cat.Label+":", cat.Count, cat.Percent))
		}
		out.WriteString("\n")
	}

	for _, trace := range report.Traces {
		out.WriteString("------------------------------\n")
		out.WriteString(heading.Sprint(trace.Tool))
		out.WriteString("\n------------------------------\n")
		out.WriteString(trace.Text)
		if !strings.HasSuffix(trace.Text, "\n") {
			out.WriteString("\n")
		}
		out.WriteString("\n")
	}

	_, err := output.Write([]byte(out.String()))
	return err
}

// Format returns the format type.
func (r *TextRenderer) Format() string {
	return "text"
}

// Package profile loads the observer tool configuration.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ChainSafe/vm-observer/observer"
	"gopkg.in/yaml.v3"
)

// Tool identifiers accepted in a profile.
const (
	ToolRTypeCounter  = "r-type-counter"
	ToolITypeCounter  = "i-type-counter"
	ToolRegisterTrace = "register-trace"
)

var knownTools = []string{ToolRTypeCounter, ToolITypeCounter, ToolRegisterTrace}

// ToolProfile represents the configuration of an observer session.
type ToolProfile struct {
	Name      string   `json:"name" yaml:"name"`
	TextBase  *uint32  `json:"text_base,omitempty" yaml:"text_base,omitempty"`
	TextLimit *uint32  `json:"text_limit,omitempty" yaml:"text_limit,omitempty"`
	Tools     []string `json:"tools" yaml:"tools"`
	Format    string   `json:"format" yaml:"format"`
}

// Default returns a profile observing the MARS text segment with every tool enabled.
func Default() *ToolProfile {
	return &ToolProfile{
		Name:      "mars",
		TextBase:  address(observer.TextBaseAddress),
		TextLimit: address(observer.TextLimitAddress),
		Tools:     slices.Clone(knownTools),
		Format:    "text",
	}
}

// LoadProfile loads a tool profile from a YAML or JSON file.
func LoadProfile(filename string) (*ToolProfile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return Parse(file, "json")
	}
	return Parse(file, "yaml")
}

// Parse reads a profile in the given encoding ("yaml" or "json"), fills in
// defaults and validates it. An empty document yields the defaults.
func Parse(r io.Reader, encoding string) (*ToolProfile, error) {
	var (
		prof ToolProfile
		err  error
	)
	switch encoding {
	case "json":
		err = json.NewDecoder(r).Decode(&prof)
	case "yaml":
		err = yaml.NewDecoder(r).Decode(&prof)
	default:
		return nil, fmt.Errorf("unsupported profile encoding: %s", encoding)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	prof.applyDefaults()
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	return &prof, nil
}

func (p *ToolProfile) applyDefaults() {
	if p.TextBase == nil {
		p.TextBase = address(observer.TextBaseAddress)
	}
	if p.TextLimit == nil {
		p.TextLimit = address(observer.TextLimitAddress)
	}
	if len(p.Tools) == 0 {
		p.Tools = slices.Clone(knownTools)
	}
	if p.Format == "" {
		p.Format = "text"
	}
}

// Validate checks the address range, tool names and output format.
func (p *ToolProfile) Validate() error {
	low, high := p.Range()
	if low > high {
		return fmt.Errorf("invalid text segment: base 0x%08x above limit 0x%08x", low, high)
	}
	for _, tool := range p.Tools {
		if !slices.Contains(knownTools, tool) {
			return fmt.Errorf("unknown tool: %s", tool)
		}
	}
	if p.Format != "text" && p.Format != "json" {
		return fmt.Errorf("invalid format: %s", p.Format)
	}
	return nil
}

// Range returns the observed address range, defaulting to the MARS text segment.
func (p *ToolProfile) Range() (uint32, uint32) {
	low, high := observer.TextBaseAddress, observer.TextLimitAddress
	if p.TextBase != nil {
		low = *p.TextBase
	}
	if p.TextLimit != nil {
		high = *p.TextLimit
	}
	return low, high
}

func address(v uint32) *uint32 {
	return &v
}

// Enabled reports whether tool is part of the profile.
func (p *ToolProfile) Enabled(tool string) bool {
	return slices.Contains(p.Tools, tool)
}

package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kleinerpirat/closet/internal/document"
)

// Scenario defines one render conformance test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed fixes the randomness source.
	Seed uint64 `yaml:"seed"`

	// Session names the session when the document carries none.
	// Empty means "test-session-default".
	Session string `yaml:"session,omitempty"`

	// Renders is how often the document is rendered against the same
	// store. Zero means once.
	Renders int `yaml:"renders,omitempty"`

	// Separator joins mixed values. Empty means ", ".
	Separator string `yaml:"separator,omitempty"`

	// MaxPasses bounds each render. Zero means the engine default.
	MaxPasses int `yaml:"max_passes,omitempty"`

	// DocumentFile is a document path relative to the scenario file.
	DocumentFile string `yaml:"document_file,omitempty"`

	// Document is an inline document; exclusive with DocumentFile.
	Document *document.Document `yaml:"document,omitempty"`

	// Assertions validate the renders.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates renders, outputs or stored state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Render is the 1-based render index. Zero means the last render.
	Render int `yaml:"render,omitempty"`

	// Occurrence is the position of an occurrence in the document
	// (used by output_count).
	Occurrence *int `yaml:"occurrence,omitempty"`

	// Key is a qualified key (output_multiset, pool_drained, memory_length).
	Key string `yaml:"key,omitempty"`

	// Expect is the expected number (pass_count, output_count, memory_length).
	Expect *int `yaml:"expect,omitempty"`

	// Values is the expected multiset (output_multiset).
	Values []string `yaml:"values,omitempty"`
}

// Assertion types.
const (
	AssertPassCount      = "pass_count"
	AssertOutputCount    = "output_count"
	AssertOutputMultiset = "output_multiset"
	AssertPoolDrained    = "pool_drained"
	AssertMemoryLength   = "memory_length"
	AssertOutputsStable  = "outputs_stable"
)

// LoadScenario loads and validates a scenario from a YAML file.
// A document_file is resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	if s.DocumentFile != "" {
		if s.Document != nil {
			return nil, fmt.Errorf("scenario %s: document and document_file are exclusive", path)
		}
		docPath := s.DocumentFile
		if !filepath.IsAbs(docPath) {
			docPath = filepath.Join(filepath.Dir(path), docPath)
		}
		if s.Document, err = document.Load(docPath); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", path, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks required fields and normalizes the inline document.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("missing name")
	}
	if s.Document == nil {
		return errors.New("missing document")
	}
	if err := s.Document.Normalize(); err != nil {
		return err
	}
	if s.Renders < 0 {
		return fmt.Errorf("renders must not be negative, got %d", s.Renders)
	}

	for i, a := range s.Assertions {
		if err := a.validate(); err != nil {
			return fmt.Errorf("assertion %d (%s): %w", i, a.Type, err)
		}
		if a.Render > max(s.Renders, 1) {
			return fmt.Errorf("assertion %d (%s): render %d out of range", i, a.Type, a.Render)
		}
	}
	return nil
}

func (a Assertion) validate() error {
	switch a.Type {
	case AssertPassCount:
		return a.need(a.Expect != nil, "expect")
	case AssertOutputCount:
		if err := a.need(a.Occurrence != nil, "occurrence"); err != nil {
			return err
		}
		return a.need(a.Expect != nil, "expect")
	case AssertOutputMultiset:
		return a.need(a.Values != nil, "values")
	case AssertPoolDrained:
		return a.need(a.Key != "", "key")
	case AssertMemoryLength:
		if err := a.need(a.Key != "", "key"); err != nil {
			return err
		}
		return a.need(a.Expect != nil, "expect")
	case AssertOutputsStable:
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func (a Assertion) need(ok bool, field string) error {
	if !ok {
		return fmt.Errorf("missing %s", field)
	}
	return nil
}

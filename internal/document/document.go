package document

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kleinerpirat/closet/internal/filter"
	"github.com/kleinerpirat/closet/internal/ir"
	"github.com/kleinerpirat/closet/internal/regions"
)

// Document is one pre-tokenized template.
type Document struct {
	Session     string       `yaml:"session"`
	Occurrences []Occurrence `yaml:"occurrences"`
	Events      []Event      `yaml:"events"`
}

// Occurrence is one tag occurrence.
type Occurrence struct {
	Key       string   `yaml:"key"`
	Qualifier string   `yaml:"qualifier"`
	Index     *int     `yaml:"occurrence"`
	Count     *int     `yaml:"count"`
	Values    []string `yaml:"values"`
}

// Event is one region boundary, written in YAML as [offset, payload].
type Event struct {
	Offset  int
	Payload any
}

// UnmarshalYAML decodes the two-element sequence form.
func (e *Event) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: event must be [offset, payload]", node.Line)
	}
	if err := node.Content[0].Decode(&e.Offset); err != nil {
		return fmt.Errorf("line %d: event offset: %w", node.Line, err)
	}
	if err := node.Content[1].Decode(&e.Payload); err != nil {
		return fmt.Errorf("line %d: event payload: %w", node.Line, err)
	}
	return nil
}

// Validation errors.
var (
	ErrMissingKey          = errors.New("occurrence has no key")
	ErrNegativeCount       = errors.New("count must not be negative")
	ErrDuplicateOccurrence = errors.New("duplicate occurrence")
)

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := doc.Normalize(); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Normalize fills in missing occurrence indices and validates the list.
// Parse calls it; documents built in code call it themselves.
func (d *Document) Normalize() error {
	next := make(map[string]int)
	seen := make(map[string]bool)

	for i := range d.Occurrences {
		occ := &d.Occurrences[i]
		if occ.Key == "" {
			return fmt.Errorf("occurrence %d: %w", i, ErrMissingKey)
		}
		if occ.Count != nil && *occ.Count < 0 {
			return fmt.Errorf("occurrence %d: %w", i, ErrNegativeCount)
		}

		qk := occ.Key + occ.Qualifier
		if occ.Index == nil {
			n := next[qk]
			occ.Index = &n
		}
		next[qk] = max(next[qk], *occ.Index+1)

		id := fmt.Sprintf("%s:%d", qk, *occ.Index)
		if seen[id] {
			return fmt.Errorf("occurrence %d (%s): %w", i, id, ErrDuplicateOccurrence)
		}
		seen[id] = true
	}
	return nil
}

// Tags converts the occurrences to filter tags in document order.
func (d *Document) Tags() []filter.Tag {
	tags := make([]filter.Tag, 0, len(d.Occurrences))
	for _, occ := range d.Occurrences {
		index := 0
		if occ.Index != nil {
			index = *occ.Index
		}
		tag := filter.NewTag(occ.Key, occ.Qualifier, index, occ.Values...)
		if occ.Count != nil {
			tag = tag.WithCount(*occ.Count)
		}
		tags = append(tags, tag)
	}
	return tags
}

// RegionEvents converts the boundary list for the region keeper.
func (d *Document) RegionEvents() []regions.Event {
	events := make([]regions.Event, 0, len(d.Events))
	for _, e := range d.Events {
		events = append(events, regions.Event{Offset: e.Offset, Payload: e.Payload})
	}
	return events
}

// Hash returns the content-addressed identity of the session and the
// occurrence list. Events are not part of the identity.
func (d *Document) Hash() (string, error) {
	occs := make([]any, 0, len(d.Occurrences))
	for _, occ := range d.Occurrences {
		values := occ.Values
		if values == nil {
			values = []string{}
		}
		entry := map[string]any{
			"key":       occ.Key,
			"qualifier": occ.Qualifier,
			"values":    values,
		}
		if occ.Index != nil {
			entry["occurrence"] = *occ.Index
		}
		if occ.Count != nil {
			entry["count"] = *occ.Count
		}
		occs = append(occs, entry)
	}
	return ir.DocumentHash(map[string]any{
		"session":     d.Session,
		"occurrences": occs,
	})
}

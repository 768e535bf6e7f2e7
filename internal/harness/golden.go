package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/kleinerpirat/closet/internal/ir"
)

// Snapshot serializes the pass structure of a result as canonical JSON.
// Outputs are left out: they depend on the randomness source.
func Snapshot(name string, result *Result) ([]byte, error) {
	passes := make([]any, len(result.Renders))
	for i, r := range result.Renders {
		passes[i] = r.Passes
	}

	trace := make([]any, len(result.Trace))
	for i, ev := range result.Trace {
		m := map[string]any{
			"render": ev.Render,
			"seq":    ev.Seq,
			"type":   ev.Type,
			"pass":   ev.Pass,
			"phase":  ev.Phase,
		}
		if ev.Tag != "" {
			m["tag"] = ev.Tag
		}
		if ev.Status != "" {
			m["status"] = ev.Status
		}
		if len(ev.Deferred) > 0 {
			m["deferred"] = ev.Deferred
		}
		trace[i] = m
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario_name": name,
		"session":       result.Session,
		"passes":        passes,
		"trace":         trace,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

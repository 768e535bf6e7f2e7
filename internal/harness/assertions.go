package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kleinerpirat/closet/internal/filter"
	"github.com/kleinerpirat/closet/internal/state"
	"github.com/kleinerpirat/closet/internal/store"
)

// AssertionContext provides what assertions inspect besides the result.
type AssertionContext struct {
	Ctx       context.Context
	Store     *store.Store
	Cache     *state.Store
	Separator string
	Tags      []filter.Tag
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Render   int
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Render > 0 {
		fmt.Fprintf(&buf, " (render %d)", e.Render)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	if len(result.Renders) == 0 {
		return fmt.Errorf("assertion %s: no renders", a.Type)
	}
	render := a.Render
	if render == 0 {
		render = len(result.Renders)
	}
	if render < 1 || render > len(result.Renders) {
		return fmt.Errorf("assertion %s: render %d out of range", a.Type, render)
	}
	summary := result.Renders[render-1]

	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Render: render, Expected: expected, Actual: actual}
	}

	switch a.Type {
	case AssertPassCount:
		if summary.Passes != *a.Expect {
			return fail(fmt.Sprintf("%d passes", *a.Expect), fmt.Sprintf("%d passes", summary.Passes))
		}

	case AssertOutputCount:
		i := *a.Occurrence
		if i < 0 || i >= len(summary.Outputs) {
			return fail(fmt.Sprintf("occurrence %d", i), fmt.Sprintf("%d occurrences", len(summary.Outputs)))
		}
		values := splitOutput(summary.Outputs[i], actx.Separator)
		if len(values) != *a.Expect {
			return fail(fmt.Sprintf("%d values at occurrence %d", *a.Expect, i), fmt.Sprintf("%d values %q", len(values), values))
		}

	case AssertOutputMultiset:
		var got []string
		for i, out := range summary.Outputs {
			if a.Key != "" && (i >= len(actx.Tags) || actx.Tags[i].QualifiedKey != a.Key) {
				continue
			}
			got = append(got, splitOutput(out, actx.Separator)...)
		}
		want := slices.Sorted(slices.Values(a.Values))
		slices.Sort(got)
		if !slices.Equal(want, got) {
			return fail(fmt.Sprintf("%q", want), fmt.Sprintf("%q", got))
		}

	case AssertPoolDrained:
		pool := state.GetAs[[]string](actx.Cache, a.Key, nil)
		if len(pool) != 0 {
			return fail("empty pool", fmt.Sprintf("%q left", pool))
		}

	case AssertMemoryLength:
		mem, err := actx.Store.LoadMemory(actx.Ctx, result.Session)
		if err != nil {
			return fmt.Errorf("assertion %s: %w", a.Type, err)
		}
		stored, _ := mem.Get(a.Key, nil).([]any)
		if len(stored) != *a.Expect {
			return fail(fmt.Sprintf("%d sort keys for %s", *a.Expect, a.Key), fmt.Sprintf("%d", len(stored)))
		}

	case AssertOutputsStable:
		first := result.Renders[0].Outputs
		for i, r := range result.Renders[1:] {
			if !slices.Equal(first, r.Outputs) {
				return fail(fmt.Sprintf("%q", first), fmt.Sprintf("render %d: %q", i+2, r.Outputs))
			}
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// splitOutput reverses the join stylizer. Empty output has no values.
func splitOutput(out, separator string) []string {
	if out == "" {
		return nil
	}
	return strings.Split(out, separator)
}

package harness

import (
	"context"
	"fmt"

	"github.com/kleinerpirat/closet/internal/engine"
	"github.com/kleinerpirat/closet/internal/filter"
	"github.com/kleinerpirat/closet/internal/shuffle"
	"github.com/kleinerpirat/closet/internal/store"
	"github.com/kleinerpirat/closet/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. The document is
// rendered Renders times through the engine's RenderSession, so memory is
// saved to and reloaded from the store between renders exactly as in
// production. Render errors abort the scenario; assertion failures are
// collected in the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	separator := scenario.Separator
	if separator == "" {
		separator = filter.DefaultSeparator
	}

	registry := filter.NewRegistry()
	registry.AddRecipe(shuffle.Recipe(shuffle.Options{
		Stylizer: filter.JoinStylizer{Separator: separator},
	}))

	opts := []engine.EngineOption{
		engine.WithStore(st),
		engine.WithRand(testutil.SeededRand(scenario.Seed)),
		engine.WithSessionGenerator(testutil.NewFixedSessionGenerator(scenario.Session)),
	}
	if scenario.MaxPasses > 0 {
		opts = append(opts, engine.WithMaxPasses(scenario.MaxPasses))
	}
	eng := engine.New(registry, opts...)

	result := NewResult()
	for i := 1; i <= max(scenario.Renders, 1); i++ {
		rendering, err := eng.RenderSession(ctx, scenario.Document)
		if err != nil {
			return nil, fmt.Errorf("render %d: %w", i, err)
		}
		result.AddRendering(rendering)
	}

	actx := &AssertionContext{
		Ctx:       ctx,
		Store:     st,
		Cache:     eng.Cache(),
		Separator: separator,
		Tags:      scenario.Document.Tags(),
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

package shuffle

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kleinerpirat/closet/internal/filter"
	"github.com/kleinerpirat/closet/internal/round"
	"github.com/kleinerpirat/closet/internal/state"
)

const maxTestPasses = 10

// testEnv drives the mix filter through passes the same way the engine does.
type testEnv struct {
	registry *filter.Registry
	ctx      *filter.Context
	coord    *round.Coordinator
}

func newTestEnv(seed uint64, memory *state.Store) *testEnv {
	if memory == nil {
		memory = state.New()
	}
	registry := filter.NewRegistry()
	registry.AddRecipe(Recipe(Options{Stylizer: filter.JoinStylizer{Separator: "|"}}))

	deferred := round.NewRegistry()
	coord := round.NewCoordinator(deferred)

	return &testEnv{
		registry: registry,
		coord:    coord,
		ctx: &filter.Context{
			Cache:    state.New(),
			Memory:   memory,
			Deferred: deferred,
			Round:    coord,
			Rand:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		},
	}
}

// render runs passes until a final pass leaves nothing pending and returns
// the per-occurrence outputs and the number of passes.
func (e *testEnv) render(t *testing.T, tags []filter.Tag) ([]string, int) {
	t.Helper()

	e.ctx.Cache.Clear()
	e.coord.Reset()

	outputs := make([]string, len(tags))
	memo := make(map[int]bool)

	for pass := 1; pass <= maxTestPasses; pass++ {
		e.coord.BeginPass()
		pending := false
		for i, tag := range tags {
			if memo[i] {
				continue
			}
			res, err := e.registry.Execute(tag, e.ctx)
			require.NoError(t, err)
			if res.Pending {
				pending = true
				outputs[i] = ""
				continue
			}
			outputs[i] = res.Text
			if res.Memoize {
				memo[i] = true
			}
		}
		_, err := e.coord.EndPass()
		require.NoError(t, err)

		if e.coord.Ready() && !pending && !e.coord.PassRequested() && pass > 1 {
			return outputs, pass
		}
	}

	t.Fatalf("render did not settle within %d passes", maxTestPasses)
	return nil, 0
}

func split(out string) []string {
	if out == "" {
		return nil
	}
	return strings.Split(out, "|")
}

func counted(key, qualifier string, occ, count int, values ...string) filter.Tag {
	return filter.NewTag(key, qualifier, occ, values...).WithCount(count)
}

package shuffle

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleinerpirat/closet/internal/filter"
	"github.com/kleinerpirat/closet/internal/round"
	"github.com/kleinerpirat/closet/internal/state"
)

func threeOccurrences() []filter.Tag {
	return []filter.Tag{
		counted("mix", "1", 0, 2, "a", "b"),
		counted("mix", "1", 1, 1, "c"),
		counted("mix", "1", 2, 3, "d", "e", "f"),
	}
}

func TestMix_CoordinatedDrainInDocumentOrder(t *testing.T) {
	env := newTestEnv(7, nil)

	outputs, passes := env.render(t, threeOccurrences())

	assert.Equal(t, 4, passes)
	require.Len(t, outputs, 3)
	first, second, third := split(outputs[0]), split(outputs[1]), split(outputs[2])
	assert.Len(t, first, 2)
	assert.Len(t, second, 1)
	assert.Len(t, third, 3)

	all := slices.Concat(first, second, third)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "f"}, all, "no duplicates, nothing skipped")

	// the drained slices are contiguous front-to-back slices of the mixed pool
	keys := asIndices(env.ctx.Memory.Get("mix1", nil))
	mixed := SortWithIndices([]string{"a", "b", "c", "d", "e", "f"}, keys)
	assert.Equal(t, mixed, all)

	assert.Empty(t, state.GetAs[[]string](env.ctx.Cache, "mix1", nil), "pool exhausted")
}

func TestMix_PassByPass(t *testing.T) {
	env := newTestEnv(11, nil)
	tags := threeOccurrences()
	cache := env.ctx.Cache
	env.coord.Reset()

	runPass := func() []string {
		env.coord.BeginPass()
		for _, tag := range tags {
			res, err := env.registry.Execute(tag, env.ctx)
			require.NoError(t, err)
			assert.True(t, res.Pending, "occurrence %s must wait", tag.ID())
		}
		ran, err := env.coord.EndPass()
		require.NoError(t, err)
		return ran
	}

	// collecting: everybody joins the waiting set, nothing is scheduled
	ran := runPass()
	assert.Empty(t, ran)
	assert.Equal(t, []string{"mix1:0", "mix1:1", "mix1:2"}, waitingMembers(cache, "mix1"))
	assert.Empty(t, state.GetAs[[]string](cache, "mix1", nil))

	// first final pass: contributions pooled once, reorder stalls on the waiting set
	ran = runPass()
	assert.Equal(t, []string{"mix1:0:apply", "mix1:mix", "mix1:1:apply", "mix1:2:apply"}, ran)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, state.GetAs[[]string](cache, "mix1", nil))
	assert.Empty(t, waitingMembers(cache, "mix1"))
	assert.False(t, state.GetAs(cache, "mix1:mixed", false))
	assert.False(t, env.ctx.Memory.Has("mix1"))

	// every contributor acknowledged: the reorder is scheduled again and runs
	ran = runPass()
	assert.Equal(t, []string{"mix1:mix"}, ran)
	assert.True(t, state.GetAs(cache, "mix1:mixed", false))
	assert.Len(t, state.GetAs[[]string](cache, "mix1", nil), 6, "no double accumulation")
	assert.Len(t, asIndices(env.ctx.Memory.Get("mix1", nil)), 6)

	// drain
	env.coord.BeginPass()
	var drained []string
	for _, tag := range tags {
		res, err := env.registry.Execute(tag, env.ctx)
		require.NoError(t, err)
		require.False(t, res.Pending)
		assert.True(t, res.Memoize, "drained output must not be drained twice")
		drained = append(drained, split(res.Text)...)
	}
	_, err := env.coord.EndPass()
	require.NoError(t, err)
	assert.Len(t, drained, 6)
}

func TestMix_ReplaysAcrossSessions(t *testing.T) {
	memory := state.New()

	first, _ := newTestEnv(1, memory).render(t, threeOccurrences())
	second, _ := newTestEnv(99, memory).render(t, threeOccurrences())

	assert.Equal(t, first, second, "persisted sort keys must reproduce the order")
}

func TestMix_ReplayAfterReload(t *testing.T) {
	memory := state.New()
	first, _ := newTestEnv(1, memory).render(t, threeOccurrences())

	// durable storage hands back generic JSON arrays
	keys := asIndices(memory.Get("mix1", nil))
	generic := make([]any, len(keys))
	for i, k := range keys {
		generic[i] = int64(k)
	}
	reloaded := state.FromMap(map[string]any{"mix1": generic})

	second, _ := newTestEnv(42, reloaded).render(t, threeOccurrences())
	assert.Equal(t, first, second)
}

func TestMix_TopUpKeepsRelativeOrder(t *testing.T) {
	memory := state.New()
	small := []filter.Tag{counted("mix", "", 0, 3, "a", "b", "c")}
	before, _ := newTestEnv(5, memory).render(t, small)
	oldKeys := slices.Clone(asIndices(memory.Get("mix", nil)))
	require.Len(t, oldKeys, 3)

	grown := []filter.Tag{
		counted("mix", "", 0, 3, "a", "b", "c"),
		counted("mix", "", 1, 2, "d", "e"),
	}
	after, _ := newTestEnv(6, memory).render(t, grown)

	newKeys := asIndices(memory.Get("mix", nil))
	require.Len(t, newKeys, 5)
	assert.Equal(t, oldKeys, newKeys[:3], "existing sort keys never change")

	// a, b and c keep their relative order in the grown pool
	all := slices.Concat(split(after[0]), split(after[1]))
	var old []string
	for _, v := range all {
		if v == "a" || v == "b" || v == "c" {
			old = append(old, v)
		}
	}
	assert.Equal(t, split(before[0]), old)
}

func TestMix_UnderSupplyYieldsShortResult(t *testing.T) {
	env := newTestEnv(3, nil)
	tags := []filter.Tag{
		counted("mix", "", 0, 3, "a", "b"),
		counted("mix", "", 1, 3, "c", "d"),
	}

	outputs, _ := env.render(t, tags)

	assert.Len(t, split(outputs[0]), 3)
	assert.Len(t, split(outputs[1]), 1)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, slices.Concat(split(outputs[0]), split(outputs[1])))
}

func TestMix_LeftoverStaysInPool(t *testing.T) {
	env := newTestEnv(3, nil)
	tags := []filter.Tag{counted("mix", "", 0, 1, "a", "b", "c")}

	outputs, _ := env.render(t, tags)

	assert.Len(t, split(outputs[0]), 1)
	assert.Len(t, state.GetAs[[]string](env.ctx.Cache, "mix", nil), 2)
}

func TestMix_IndependentQualifiedKeys(t *testing.T) {
	env := newTestEnv(8, nil)
	tags := []filter.Tag{
		counted("mix", "1", 0, 2, "a", "b"),
		counted("mix", "2", 0, 2, "x", "y"),
	}

	outputs, _ := env.render(t, tags)

	assert.ElementsMatch(t, []string{"a", "b"}, split(outputs[0]))
	assert.ElementsMatch(t, []string{"x", "y"}, split(outputs[1]))
}

func TestMix_NoCountShufflesIndependently(t *testing.T) {
	env := newTestEnv(21, nil)
	tags := []filter.Tag{filter.NewTag("mix", "", 0, "a", "b", "c", "d")}

	outputs, passes := env.render(t, tags)

	assert.Equal(t, 2, passes)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, split(outputs[0]))
	assert.Empty(t, waitingMembers(env.ctx.Cache, "mix"), "uncounted occurrences never wait")
	assert.False(t, env.ctx.Memory.Has("mix"), "no shared state touched")
}

func TestMix_RegistrationOutsidePassFails(t *testing.T) {
	env := newTestEnv(1, nil)
	env.coord.Reset()
	env.coord.BeginPass()
	_, err := env.coord.EndPass()
	require.NoError(t, err)
	require.True(t, env.coord.Ready())

	_, err = env.registry.Execute(counted("mix", "", 0, 1, "a"), env.ctx)
	assert.ErrorIs(t, err, round.ErrNoActiveRound)
}

func TestRecipe_Tagname(t *testing.T) {
	r := filter.NewRegistry()
	r.AddRecipe(Recipe(Options{Tagname: "shuffle"}), Recipe(Options{}))

	assert.Equal(t, []string{"mix", "shuffle"}, r.Names())
}

func waitingMembers(cache *state.Store, qualifiedKey string) []string {
	return state.GetAs[state.Set](cache, qualifiedKey+":waitingSet", nil).Members()
}

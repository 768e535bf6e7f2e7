package shuffle

import (
	"log/slog"
	"slices"

	"github.com/kleinerpirat/closet/internal/filter"
	"github.com/kleinerpirat/closet/internal/state"
)

// DefaultTagname is the filter name used when Options.Tagname is empty.
const DefaultTagname = "mix"

// Options configures the mix recipe.
type Options struct {
	Tagname  string
	Stylizer filter.Stylizer
}

// Recipe registers the mix filter.
func Recipe(opts Options) filter.Recipe {
	name := opts.Tagname
	if name == "" {
		name = DefaultTagname
	}
	stylizer := opts.Stylizer
	if stylizer == nil {
		stylizer = filter.JoinStylizer{Separator: filter.DefaultSeparator}
	}

	return func(r *filter.Registry) {
		r.Register(name, Mix(stylizer))
	}
}

type keys struct {
	id         string
	pool       string
	waitingSet string
	apply      string
	mix        string
	mixed      string
}

func keysFor(tag filter.Tag) keys {
	id := tag.ID()
	return keys{
		id:         id,
		pool:       tag.QualifiedKey,
		waitingSet: tag.QualifiedKey + ":waitingSet",
		apply:      id + ":apply",
		mix:        tag.QualifiedKey + ":mix",
		mixed:      tag.QualifiedKey + ":mixed",
	}
}

// Mix returns the mix filter.
func Mix(stylizer filter.Stylizer) filter.Filter {
	return func(tag filter.Tag, ctx *filter.Context) (filter.Result, error) {
		k := keysFor(tag)
		count, counted := tag.Num()

		if state.GetAs(ctx.Cache, k.apply, false) {
			if len(waiting(ctx, k)) > 0 {
				return filter.Pending, nil
			}
			if !state.GetAs(ctx.Cache, k.mixed, false) {
				// every contributor is acknowledged but the pool is not
				// reordered yet: schedule the reorder again
				if err := ctx.Deferred.RegisterIfNotExists(k.mix, mixPool(ctx, k)); err != nil {
					return filter.Result{}, err
				}
				return filter.Pending, nil
			}
			return filter.Memoized(stylizer.StylizeInner(drain(ctx.Cache, k.pool, count))), nil
		}

		if !ctx.Round.Ready() {
			if counted {
				state.UpdateAs(ctx.Cache, k.waitingSet, func(s state.Set) state.Set {
					return s.With(k.id)
				}, nil)
			}
			return filter.Pending, nil
		}

		if !counted {
			return filter.Memoized(stylizer.StylizeInner(Shuffle(ctx.Rand, tag.Values))), nil
		}

		state.Append(ctx.Cache, k.pool, tag.Values...)

		if err := ctx.Deferred.RegisterIfNotExists(k.apply, func() {
			ctx.Cache.Set(k.apply, true)
			state.UpdateAs(ctx.Cache, k.waitingSet, func(s state.Set) state.Set {
				return s.Without(k.id)
			}, nil)
		}); err != nil {
			return filter.Result{}, err
		}
		if err := ctx.Deferred.RegisterIfNotExists(k.mix, mixPool(ctx, k)); err != nil {
			return filter.Result{}, err
		}

		return filter.Pending, nil
	}
}

func waiting(ctx *filter.Context, k keys) state.Set {
	return state.GetAs[state.Set](ctx.Cache, k.waitingSet, nil)
}

// mixPool reorders the pool once no contributor is waiting.
func mixPool(ctx *filter.Context, k keys) func() {
	return func() {
		if len(waiting(ctx, k)) > 0 {
			return
		}

		pool := state.GetAs[[]string](ctx.Cache, k.pool, nil)
		sortKeys := ctx.Memory.Update(k.pool, func(v any) any {
			return TopUp(ctx.Rand, asIndices(v), len(pool))
		}, nil).([]int)

		ctx.Cache.Set(k.pool, SortWithIndices(pool, sortKeys))
		ctx.Cache.Set(k.mixed, true)

		slog.Debug("pool mixed", "key", k.pool, "size", len(pool), "keys", len(sortKeys))
	}
}

// drain removes up to n values from the front of the pool. A short pool
// yields a short result.
func drain(cache *state.Store, key string, n int) []string {
	var popped []string
	state.UpdateAs(cache, key, func(pool []string) []string {
		n = max(0, min(n, len(pool)))
		popped = slices.Clone(pool[:n])
		return slices.Clone(pool[n:])
	}, nil)
	return popped
}

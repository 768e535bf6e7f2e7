package shuffle

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
)

// Shuffle returns a uniformly permuted copy of values.
func Shuffle[T any](r *rand.Rand, values []T) []T {
	out := slices.Clone(values)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// TopUp extends keys to length n. Existing keys are kept; each new position
// gets a fresh key drawn uniformly from [0, n). Keys at least n long are
// returned unchanged.
func TopUp(r *rand.Rand, keys []int, n int) []int {
	if len(keys) >= n {
		return keys
	}
	out := make([]int, len(keys), n)
	copy(out, keys)
	for i := len(keys); i < n; i++ {
		out = append(out, r.IntN(n))
	}
	return out
}

// SortWithIndices returns values reordered by their sort keys: value i is
// placed according to keys[i]. The sort is stable, so equal keys keep the
// original relative order. Values without a key sort last.
func SortWithIndices[T any](values []T, keys []int) []T {
	type keyed struct {
		key   int
		value T
	}

	items := make([]keyed, len(values))
	for i, v := range values {
		key := math.MaxInt
		if i < len(keys) {
			key = keys[i]
		}
		items[i] = keyed{key: key, value: v}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return cmp.Compare(a.key, b.key)
	})

	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.value
	}
	return out
}

// asIndices reads sort keys from the persistent store. Values written during
// this session are []int; values reloaded from durable storage arrive as
// generic JSON arrays.
func asIndices(v any) []int {
	switch vs := v.(type) {
	case []int:
		return vs
	case []int64:
		out := make([]int, len(vs))
		for i, n := range vs {
			out[i] = int(n)
		}
		return out
	case []any:
		out := make([]int, 0, len(vs))
		for _, e := range vs {
			switch n := e.(type) {
			case int:
				out = append(out, n)
			case int64:
				out = append(out, int(n))
			case float64:
				out = append(out, int(n))
			default:
				// a foreign entry ends the usable prefix
				return out
			}
		}
		return out
	default:
		return nil
	}
}

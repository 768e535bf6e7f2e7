package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny_ToAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"ints":    []int{4, 2},
		"strings": []string{"a"},
		"flag":    true,
		"nested":  []any{int64(1), "x"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"ints":    []any{int64(4), int64(2)},
		"strings": []any{"a"},
		"flag":    true,
		"nested":  []any{int64(1), "x"},
	}, ToAny(v))
}

func TestFromAny_StringSetSorted(t *testing.T) {
	v, err := FromAny(map[string]struct{}{"b": {}, "a": {}})
	require.NoError(t, err)
	assert.Equal(t, IRArray{IRString("a"), IRString("b")}, v)
}

func TestFromAny_PassesIRValues(t *testing.T) {
	v, err := FromAny(IRInt(3))
	require.NoError(t, err)
	assert.Equal(t, IRInt(3), v)
}

func TestFromAny_Rejects(t *testing.T) {
	_, err := FromAny(float32(1))
	assert.Error(t, err)

	_, err = FromAny(map[string]any{"x": nil})
	assert.ErrorContains(t, err, `["x"]`)
}

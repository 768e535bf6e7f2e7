package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(text string) Filter {
	return func(Tag, *Context) (Result, error) {
		return Output(text), nil
	}
}

func TestRegistry_RegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	r.Register("hint", constant("H"))

	res, err := r.Execute(NewTag("hint", "1", 0), &Context{})
	require.NoError(t, err)
	assert.Equal(t, "H", res.Text)
	assert.False(t, res.Pending)
}

func TestRegistry_UnknownFilter(t *testing.T) {
	r := NewRegistry()

	_, err := r.Execute(NewTag("nope", "", 0), &Context{})
	require.ErrorIs(t, err, ErrUnknownFilter)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("x", constant("old"))
	r.Register("x", constant("new"))

	res, err := r.Execute(NewTag("x", "", 0), &Context{})
	require.NoError(t, err)
	assert.Equal(t, "new", res.Text)
}

func TestRegistry_UnregisterHasClear(t *testing.T) {
	r := NewRegistry()
	r.Register("a", constant("a"))
	r.Register("b", constant("b"))
	assert.Equal(t, []string{"a", "b"}, r.Names())

	r.Unregister("a")
	assert.False(t, r.Has("a"))
	assert.True(t, r.Has("b"))

	r.Clear()
	assert.Empty(t, r.Names())
}

func TestRegistry_GetOrDefault(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("missing")
	assert.False(t, ok)

	res, err := r.GetOrDefault("missing")(NewTag("missing", "", 0, "a", "b"), &Context{})
	require.NoError(t, err)
	assert.Equal(t, "a::b", res.Text)

	r.SetDefault(constant("fallback"))
	res, err = r.GetOrDefault("missing")(Tag{}, &Context{})
	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Text)
}

func TestRegistry_AddRecipe(t *testing.T) {
	r := NewRegistry()
	r.AddRecipe(
		func(r *Registry) { r.Register("one", constant("1")) },
		func(r *Registry) { r.Register("two", constant("2")) },
	)

	assert.Equal(t, []string{"one", "two"}, r.Names())
}

func TestGate(t *testing.T) {
	isFront := func(tag Tag, _ *Context) bool {
		n, ok := tag.Num()
		return ok && n == 1
	}

	gated := Gate(isFront, constant("shown"), constant("hidden"))
	res, err := gated(NewTag("c", "1", 0).WithCount(1), &Context{})
	require.NoError(t, err)
	assert.Equal(t, "shown", res.Text)

	res, err = gated(NewTag("c", "2", 0).WithCount(2), &Context{})
	require.NoError(t, err)
	assert.Equal(t, "hidden", res.Text)

	res, err = Gate(isFront, constant("shown"), nil)(NewTag("c", "", 0), &Context{})
	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
}

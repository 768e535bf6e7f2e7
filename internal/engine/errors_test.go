package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kleinerpirat/closet/internal/filter"
)

func TestQuotaEnforcer_WithinLimit(t *testing.T) {
	q := NewQuotaEnforcer(4)

	for i := 0; i < 4; i++ {
		assert.NoError(t, q.Check("s"), "pass %d should be allowed", i+1)
	}
	assert.Equal(t, 4, q.Current())
	assert.Equal(t, 4, q.MaxPasses())
}

func TestQuotaEnforcer_ExceedsLimit(t *testing.T) {
	q := NewQuotaEnforcer(2)
	assert.NoError(t, q.Check("s"))
	assert.NoError(t, q.Check("s"))

	err := q.Check("s")
	assert.True(t, IsQuotaError(err))
	assert.Contains(t, err.Error(), "PASS_QUOTA_EXCEEDED")
	assert.Contains(t, err.Error(), "session=s")

	q.Reset()
	assert.Equal(t, 0, q.Current())
	assert.NoError(t, q.Check("s"))
}

func TestNewFilterError_Classifies(t *testing.T) {
	tag := filter.NewTag("mix", "1", 2)

	unknown := NewFilterError("s", tag, 1, fmt.Errorf("tag %q: %w", "mix", filter.ErrUnknownFilter))
	assert.Equal(t, ErrCodeUnknownFilter, unknown.Code)
	assert.Equal(t, "mix1:2", unknown.Tag)
	assert.Contains(t, unknown.Error(), "tag=mix1:2")

	failed := NewFilterError("s", tag, 1, errors.New("boom"))
	assert.Equal(t, ErrCodeFilterFailed, failed.Code)
}

func TestIsPredicates_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewQuotaError("s", 5, 4))
	assert.True(t, IsQuotaError(err))
	assert.False(t, IsUnknownFilter(err))
	assert.False(t, IsQuotaError(errors.New("plain")))
}

func TestRuntimeError_NoSession(t *testing.T) {
	err := &RuntimeError{Code: ErrCodeFilterFailed, Message: "x"}
	assert.Equal(t, "FILTER_FAILED: x", err.Error())
}

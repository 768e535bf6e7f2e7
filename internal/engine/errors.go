package engine

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kleinerpirat/closet/internal/filter"
)

// RuntimeError represents an error detected during a render.
//
// Runtime errors include:
//   - Unknown filter: a tag names a filter that is not registered
//   - Filter failure: a filter returned a usage error
//   - Quota exceeded: the render did not settle within the pass limit
//
// Under-supplied pools and stalled coordination are not errors; they show
// up as short or empty output.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Session identifies the affected render.
	Session string

	// Tag is the occurrence id ("qualifiedKey:occurrence"), if any.
	Tag string

	// Pass is the 1-based pass in which the error occurred.
	Pass int

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownFilter indicates a tag names an unregistered filter.
	ErrCodeUnknownFilter RuntimeErrorCode = "UNKNOWN_FILTER"

	// ErrCodeQuotaExceeded indicates the render exceeded max passes.
	ErrCodeQuotaExceeded RuntimeErrorCode = "PASS_QUOTA_EXCEEDED"

	// ErrCodeFilterFailed indicates a filter returned an error.
	ErrCodeFilterFailed RuntimeErrorCode = "FILTER_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Session != "" && e.Tag != "" {
		return fmt.Sprintf("%s: %s (session=%s, tag=%s, pass=%d)", e.Code, e.Message, e.Session, e.Tag, e.Pass)
	}
	if e.Session != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.Session)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsUnknownFilter returns true if the error is an unknown filter error.
// Uses errors.As to handle wrapped errors.
func IsUnknownFilter(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnknownFilter
	}
	return false
}

// IsQuotaError returns true if the error is a pass quota error.
// Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeQuotaExceeded
	}
	return false
}

// NewFilterError classifies an error returned while executing tag.
func NewFilterError(session string, tag filter.Tag, pass int, err error) *RuntimeError {
	code := ErrCodeFilterFailed
	if errors.Is(err, filter.ErrUnknownFilter) {
		code = ErrCodeUnknownFilter
	}
	return &RuntimeError{
		Code:    code,
		Message: err.Error(),
		Session: session,
		Tag:     tag.ID(),
		Pass:    pass,
		Err:     err,
	}
}

// NewQuotaError creates a RuntimeError for quota exceeded.
func NewQuotaError(session string, passes, maxPasses int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("render did not settle (%d > %d passes)", passes, maxPasses),
		Session: session,
		Pass:    passes,
		Details: map[string]string{
			"passes":     strconv.Itoa(passes),
			"max_passes": strconv.Itoa(maxPasses),
		},
	}
}

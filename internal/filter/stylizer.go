package filter

import "strings"

// Stylizer turns a filter's raw values into display text.
type Stylizer interface {
	StylizeInner(values []string) string
}

// DefaultSeparator joins values when no separator is configured.
const DefaultSeparator = ", "

// JoinStylizer joins values with Separator.
type JoinStylizer struct {
	Separator string
}

// StylizeInner implements Stylizer.
func (s JoinStylizer) StylizeInner(values []string) string {
	return strings.Join(values, s.Separator)
}

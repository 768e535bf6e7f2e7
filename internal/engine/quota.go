package engine

// QuotaEnforcer counts the passes of one render and enforces the pass limit.
//
// A render that never settles (a filter requesting passes forever, or a
// coordination key whose contributors never all arrive) fails with
// PASS_QUOTA_EXCEEDED instead of looping.
type QuotaEnforcer struct {
	maxPasses int
	current   int
}

// NewQuotaEnforcer creates a new quota enforcer with the given limit.
func NewQuotaEnforcer(maxPasses int) *QuotaEnforcer {
	return &QuotaEnforcer{maxPasses: maxPasses}
}

// Check counts one more pass and validates it against the limit.
func (q *QuotaEnforcer) Check(session string) error {
	q.current++
	if q.current > q.maxPasses {
		return NewQuotaError(session, q.current, q.maxPasses)
	}
	return nil
}

// Reset resets the pass counter to 0.
func (q *QuotaEnforcer) Reset() {
	q.current = 0
}

// Current returns the current pass count.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxPasses returns the pass limit.
func (q *QuotaEnforcer) MaxPasses() int {
	return q.maxPasses
}

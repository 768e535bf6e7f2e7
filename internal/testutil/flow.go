package testutil

// FixedSessionGenerator names every unnamed session the same.
//
// Unlike engine.FixedGenerator, which returns ids in sequence, this
// generator never runs out. Scenarios that render the same document
// repeatedly use it so every render lands in one session.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	session string
}

// NewFixedSessionGenerator creates a new fixed session generator.
//
// If session is empty, Generate() returns "test-session-default".
func NewFixedSessionGenerator(session string) *FixedSessionGenerator {
	if session == "" {
		session = "test-session-default"
	}
	return &FixedSessionGenerator{session: session}
}

// Generate returns the fixed session. Implements engine.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.session
}

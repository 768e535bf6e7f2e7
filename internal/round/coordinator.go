package round

import "fmt"

// Phase is the state of a render.
type Phase int

const (
	// Collecting means not every contributing occurrence is known yet.
	Collecting Phase = iota
	// Final means every occurrence has been visited at least once.
	Final
)

func (p Phase) String() string {
	switch p {
	case Collecting:
		return "collecting"
	case Final:
		return "final"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Coordinator owns the phase of a render and the pass boundaries.
//
// Lifecycle per render: Reset, then BeginPass/EndPass for every pass.
// The first EndPass performs the one-way Collecting -> Final transition
// before the deferred callbacks run.
type Coordinator struct {
	deferred  *Registry
	phase     Phase
	pass      int
	inPass    bool
	requested bool
}

// NewCoordinator creates a coordinator driving the given registry.
func NewCoordinator(deferred *Registry) *Coordinator {
	return &Coordinator{deferred: deferred}
}

// Deferred returns the registry run at pass boundaries.
func (c *Coordinator) Deferred() *Registry {
	return c.deferred
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// Ready reports whether the render has reached the Final phase.
func (c *Coordinator) Ready() bool {
	return c.phase == Final
}

// Pass returns the 1-based number of the current or last pass.
func (c *Coordinator) Pass() int {
	return c.pass
}

// RequestPass asks for another pass after the current one, even if every
// occurrence produced output.
func (c *Coordinator) RequestPass() {
	c.requested = true
}

// PassRequested reports whether RequestPass was called during the current
// or last pass.
func (c *Coordinator) PassRequested() bool {
	return c.requested
}

// Reset prepares the coordinator for a new render.
func (c *Coordinator) Reset() {
	c.phase = Collecting
	c.pass = 0
	c.inPass = false
	c.requested = false
	c.deferred.close()
	c.deferred.Clear()
}

// BeginPass starts the next pass and opens the deferred registry.
func (c *Coordinator) BeginPass() {
	c.pass++
	c.inPass = true
	c.requested = false
	c.deferred.open()
}

// EndPass closes the deferred registry, performs the phase transition after
// the first pass, and runs the deferred callbacks. It returns the names of
// the callbacks that ran, in order.
func (c *Coordinator) EndPass() ([]string, error) {
	if !c.inPass {
		return nil, fmt.Errorf("end pass: %w", ErrNoActiveRound)
	}
	c.inPass = false
	c.deferred.close()

	if c.phase == Collecting {
		c.phase = Final
	}

	return c.deferred.run(), nil
}

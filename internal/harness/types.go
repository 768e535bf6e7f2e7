package harness

import "github.com/kleinerpirat/closet/internal/engine"

// TraceEvent is an engine trace event tagged with its render.
type TraceEvent struct {
	Render int `json:"render"`
	engine.TraceEvent
}

// RenderSummary is the outcome of one render.
type RenderSummary struct {
	Passes  int      `json:"passes"`
	Outputs []string `json:"outputs"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Session the scenario rendered in.
	Session string `json:"session"`

	// Renders holds one summary per render, in order.
	Renders []RenderSummary `json:"renders"`

	// Trace holds the engine traces of all renders, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Renders: []RenderSummary{},
		Trace:   []TraceEvent{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddRendering records one render and its trace.
func (r *Result) AddRendering(rendering *engine.Rendering) {
	r.Session = rendering.Session
	r.Renders = append(r.Renders, RenderSummary{
		Passes:  rendering.Passes,
		Outputs: rendering.Outputs,
	})
	render := len(r.Renders)
	for _, ev := range rendering.Trace {
		r.Trace = append(r.Trace, TraceEvent{Render: render, TraceEvent: ev})
	}
}

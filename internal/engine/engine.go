package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/kleinerpirat/closet/internal/document"
	"github.com/kleinerpirat/closet/internal/filter"
	"github.com/kleinerpirat/closet/internal/ir"
	"github.com/kleinerpirat/closet/internal/round"
	"github.com/kleinerpirat/closet/internal/state"
	"github.com/kleinerpirat/closet/internal/store"
)

// SessionGenerator names sessions whose document carries no session.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type SessionGenerator interface {
	Generate() string
}

// DefaultMaxPasses is the default pass limit of one render.
const DefaultMaxPasses = 16

// Engine drives renders: it visits every occurrence of a document pass by
// pass until the filters have settled.
//
// An Engine is not safe for concurrent use. Renders are sequential; the
// round-scoped store, the deferred registry and the coordinator are reused
// from one render to the next.
type Engine struct {
	registry  *filter.Registry
	store     *store.Store
	clock     *Clock
	sessions  SessionGenerator
	rand      *rand.Rand
	maxPasses int
	custom    any
	tokenizer filter.Tokenizer

	cache    *state.Store
	deferred *round.Registry
	coord    *round.Coordinator
	memo     *memoizer
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithMaxPasses sets the pass limit per render.
func WithMaxPasses(n int) EngineOption {
	return func(e *Engine) {
		e.maxPasses = n
	}
}

// WithStore enables RenderSession, which loads and saves memory and logs
// renders in s.
func WithStore(s *store.Store) EngineOption {
	return func(e *Engine) {
		e.store = s
	}
}

// WithClock replaces the logical clock.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithSessionGenerator replaces the generator used for unnamed sessions.
func WithSessionGenerator(g SessionGenerator) EngineOption {
	return func(e *Engine) {
		e.sessions = g
	}
}

// WithRand sets the randomness source handed to filters.
func WithRand(r *rand.Rand) EngineOption {
	return func(e *Engine) {
		e.rand = r
	}
}

// WithSeed seeds a PCG randomness source. The same seed and the same stored
// memory reproduce a render exactly.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithCustom sets the application value exposed as Context.Custom.
func WithCustom(v any) EngineOption {
	return func(e *Engine) {
		e.custom = v
	}
}

// WithTokenizer sets the tokenizer filters may call back into.
func WithTokenizer(t filter.Tokenizer) EngineOption {
	return func(e *Engine) {
		e.tokenizer = t
	}
}

// New creates an Engine executing tags through registry.
func New(registry *filter.Registry, opts ...EngineOption) *Engine {
	deferred := round.NewRegistry()
	e := &Engine{
		registry:  registry,
		clock:     NewClock(),
		sessions:  UUIDv7Generator{},
		maxPasses: DefaultMaxPasses,
		cache:     state.New(),
		deferred:  deferred,
		coord:     round.NewCoordinator(deferred),
		memo:      newMemoizer(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.rand == nil {
		e.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return e
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Cache returns the round-scoped store of the last render.
func (e *Engine) Cache() *state.Store {
	return e.cache
}

// Rendering is the result of one render.
type Rendering struct {
	Session string       `json:"session"`
	Passes  int          `json:"passes"`
	Outputs []string     `json:"outputs"`
	Trace   []TraceEvent `json:"trace"`
}

// Trace event types.
const (
	TraceVisit   = "visit"
	TracePassEnd = "pass_end"
)

// Visit statuses.
const (
	StatusPending  = "pending"
	StatusOutput   = "output"
	StatusMemoized = "memoized"
	StatusReused   = "reused"
)

// TraceEvent records one step of a render. Output text is left out so the
// trace does not depend on the randomness source.
type TraceEvent struct {
	Seq      int64    `json:"seq"`
	Type     string   `json:"type"`
	Pass     int      `json:"pass"`
	Phase    string   `json:"phase"`
	Tag      string   `json:"tag,omitempty"`
	Status   string   `json:"status,omitempty"`
	Deferred []string `json:"deferred,omitempty"`
}

// Session returns the session doc renders in.
func (e *Engine) Session(doc *document.Document) string {
	if doc.Session != "" {
		return doc.Session
	}
	return e.sessions.Generate()
}

// Render renders doc against memory, which is read and updated in place.
//
// Each pass visits every occurrence in document order and then runs the
// deferred callbacks. The first pass ends the collecting phase. The render
// completes after a final-phase pass in which no occurrence was pending and
// no filter requested another pass. A render that keeps an occurrence
// pending fails once the pass quota is exhausted.
func (e *Engine) Render(ctx context.Context, doc *document.Document, memory *state.Store) (*Rendering, error) {
	return e.render(ctx, e.Session(doc), doc.Tags(), memory)
}

func (e *Engine) render(ctx context.Context, session string, tags []filter.Tag, memory *state.Store) (*Rendering, error) {
	if memory == nil {
		memory = state.New()
	}

	e.cache.Clear()
	e.memo.clear()
	e.coord.Reset()

	fctx := &filter.Context{
		Cache:     e.cache,
		Memory:    memory,
		Deferred:  e.deferred,
		Round:     e.coord,
		Rand:      e.rand,
		Custom:    e.custom,
		Tokenizer: e.tokenizer,
	}

	quota := NewQuotaEnforcer(e.maxPasses)
	r := &Rendering{
		Session: session,
		Outputs: make([]string, len(tags)),
	}

	slog.Debug("render starting", "session", session, "tags", len(tags))

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render %s: %w", session, err)
		}
		if err := quota.Check(session); err != nil {
			slog.Error("pass quota exceeded",
				"session", session,
				"passes", quota.Current(),
				"max_passes", quota.MaxPasses(),
			)
			return nil, err
		}

		settled := e.coord.Ready()
		e.coord.BeginPass()
		pass := e.coord.Pass()
		phase := e.coord.Phase().String()

		pending := 0
		for i, tag := range tags {
			status, err := e.visit(fctx, r, i, tag)
			if err != nil {
				return nil, NewFilterError(session, tag, pass, err)
			}
			if status == StatusPending {
				pending++
			}
			r.Trace = append(r.Trace, TraceEvent{
				Seq:    e.clock.Next(),
				Type:   TraceVisit,
				Pass:   pass,
				Phase:  phase,
				Tag:    tag.ID(),
				Status: status,
			})
		}

		requested := e.coord.PassRequested()
		ran, err := e.coord.EndPass()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", session, err)
		}
		r.Trace = append(r.Trace, TraceEvent{
			Seq:      e.clock.Next(),
			Type:     TracePassEnd,
			Pass:     pass,
			Phase:    phase,
			Deferred: ran,
		})

		slog.Debug("pass finished",
			"session", session,
			"pass", pass,
			"phase", phase,
			"pending", pending,
			"deferred", len(ran),
		)

		if settled && pending == 0 && !requested {
			r.Passes = pass
			break
		}
	}

	slog.Info("render finished", "session", session, "passes", r.Passes, "tags", len(tags))
	return r, nil
}

// visit executes one occurrence unless its output is memoized.
func (e *Engine) visit(fctx *filter.Context, r *Rendering, i int, tag filter.Tag) (string, error) {
	if text, ok := e.memo.lookup(i); ok {
		r.Outputs[i] = text
		return StatusReused, nil
	}

	res, err := e.registry.Execute(tag, fctx)
	if err != nil {
		return "", err
	}

	if res.Pending {
		r.Outputs[i] = ""
		return StatusPending, nil
	}

	r.Outputs[i] = res.Text
	if res.Memoize {
		e.memo.store(i, res.Text)
		return StatusMemoized, nil
	}
	return StatusOutput, nil
}

// RenderSession loads the session's memory from the store, renders doc,
// saves the updated memory and appends the render to the log.
func (e *Engine) RenderSession(ctx context.Context, doc *document.Document) (*Rendering, error) {
	if e.store == nil {
		return nil, fmt.Errorf("render session: no store configured")
	}

	session := e.Session(doc)

	memory, err := e.store.LoadMemory(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("render session %s: %w", session, err)
	}

	last, err := e.store.LastSeq(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("render session %s: %w", session, err)
	}
	e.clock.AdvanceTo(last)

	r, err := e.render(ctx, session, doc.Tags(), memory)
	if err != nil {
		return nil, err
	}

	if err := e.store.SaveMemory(ctx, session, memory); err != nil {
		return nil, fmt.Errorf("render session %s: %w", session, err)
	}

	docHash, err := doc.Hash()
	if err != nil {
		return nil, fmt.Errorf("render session %s: %w", session, err)
	}
	seq := e.clock.Next()
	id, err := ir.RenderID(session, docHash, r.Outputs, seq)
	if err != nil {
		return nil, fmt.Errorf("render session %s: %w", session, err)
	}

	err = e.store.WriteRender(ctx, store.RenderRecord{
		ID:            id,
		Session:       session,
		Document:      docHash,
		Passes:        r.Passes,
		Outputs:       r.Outputs,
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("render session %s: %w", session, err)
	}

	slog.Info("render logged", "session", session, "id", id, "seq", seq)
	return r, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kleinerpirat/closet/internal/document"
	"github.com/kleinerpirat/closet/internal/engine"
	"github.com/kleinerpirat/closet/internal/filter"
	"github.com/kleinerpirat/closet/internal/shuffle"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Database  string
	Session   string
	Seed      uint64
	MaxPasses int
	Separator string
	Trace     bool

	// SessionGenerator overrides the generator for unnamed sessions (for
	// testing). If nil, defaults to UUIDv7Generator.
	SessionGenerator engine.SessionGenerator
}

// RenderOutput is the render command's result.
type RenderOutput struct {
	Session string              `json:"session"`
	Passes  int                 `json:"passes"`
	Outputs []OccurrenceOutput  `json:"outputs"`
	Trace   []engine.TraceEvent `json:"trace,omitempty"`
}

// OccurrenceOutput is the text produced for one occurrence.
type OccurrenceOutput struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <document.yaml>",
		Short: "Render a document",
		Long: `Render a pre-tokenized document through the filters.

The session's persistent memory is loaded from the database before the
render and saved after it, and the render is appended to the session's
history. Rendering the same session again reproduces the mixed order.

Flags override the configuration file.

Example:
  closet render deck.yaml --db ./closet.db --session deck-1
  closet render deck.yaml --seed 42 --trace --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session name (overrides the document)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for the randomness source (0 = random)")
	cmd.Flags().IntVar(&opts.MaxPasses, "max-passes", 0, "pass limit per render (default from config)")
	cmd.Flags().StringVar(&opts.Separator, "separator", "", "separator for mixed values (default from config)")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "include the pass trace")

	return cmd
}

// resolve merges flags over the configuration.
func (o *RenderOptions) resolve(cmd *cobra.Command) {
	cfg := o.Config
	if !cmd.Flags().Changed("session") {
		o.Session = cfg.Session
	}
	if !cmd.Flags().Changed("seed") {
		o.Seed = cfg.Seed
	}
	if !cmd.Flags().Changed("max-passes") {
		o.MaxPasses = cfg.MaxPasses
	}
	if !cmd.Flags().Changed("separator") {
		o.Separator = cfg.Separator
	}
}

func runRender(opts *RenderOptions, docPath string, cmd *cobra.Command) error {
	if err := opts.ensureConfig(); err != nil {
		return err
	}
	opts.resolve(cmd)
	f := opts.formatter(cmd)

	doc, err := document.Load(docPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load document", err)
	}
	if opts.Session != "" {
		doc.Session = opts.Session
	}

	st, err := opts.openStore(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	registry := filter.NewRegistry()
	registry.AddRecipe(shuffle.Recipe(shuffle.Options{
		Stylizer: filter.JoinStylizer{Separator: opts.Separator},
	}))

	engOpts := []engine.EngineOption{
		engine.WithStore(st),
		engine.WithMaxPasses(opts.MaxPasses),
	}
	if opts.Seed != 0 {
		engOpts = append(engOpts, engine.WithSeed(opts.Seed))
	}
	if opts.SessionGenerator != nil {
		engOpts = append(engOpts, engine.WithSessionGenerator(opts.SessionGenerator))
	}
	eng := engine.New(registry, engOpts...)

	// Setup signal handling for cancellation between passes.
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling render", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Render finished or parent context cancelled (e.g., from test)
		}
	}()
	defer func() {
		cancel()
		<-done
	}()

	f.VerboseLog("rendering %s (%d occurrences)", docPath, len(doc.Occurrences))

	r, err := eng.RenderSession(ctx, doc)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return WrapExitError(ExitFailure, "render cancelled", err)
		}
		return WrapExitError(ExitFailure, "render failed", err)
	}

	out := RenderOutput{
		Session: r.Session,
		Passes:  r.Passes,
		Outputs: make([]OccurrenceOutput, len(r.Outputs)),
	}
	for i, tag := range doc.Tags() {
		out.Outputs[i] = OccurrenceOutput{Tag: tag.ID(), Text: r.Outputs[i]}
	}
	if opts.Trace {
		out.Trace = r.Trace
	}

	return f.Success(out, func(w io.Writer) {
		fmt.Fprintf(w, "session %s: %d passes\n", out.Session, out.Passes)
		for _, o := range out.Outputs {
			fmt.Fprintf(w, "%s\t%s\n", o.Tag, o.Text)
		}
		for _, ev := range out.Trace {
			writeTraceEvent(w, ev)
		}
	})
}

func writeTraceEvent(w io.Writer, ev engine.TraceEvent) {
	switch ev.Type {
	case engine.TraceVisit:
		fmt.Fprintf(w, "  [%d] pass %d %s %s %s\n", ev.Seq, ev.Pass, ev.Phase, ev.Tag, ev.Status)
	default:
		fmt.Fprintf(w, "  [%d] pass %d %s end %v\n", ev.Seq, ev.Pass, ev.Phase, ev.Deferred)
	}
}

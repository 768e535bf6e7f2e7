package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kleinerpirat/closet/internal/store"
)

// MemoryOptions holds flags for the memory commands.
type MemoryOptions struct {
	*RootOptions
	Database string
	Session  string
}

// MemoryOutput is the result of memory show.
type MemoryOutput struct {
	Session string              `json:"session"`
	Entries []store.MemoryEntry `json:"entries"`
}

// NewMemoryCommand creates the memory command group.
func NewMemoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MemoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect and clear persistent memory",
		Long: `Inspect and clear the persistent memory of sessions.

Persistent memory holds the sort keys that make a session's mixed order
reproducible. Clearing it makes the next render draw a fresh order.

Example:
  closet memory sessions --db ./closet.db
  closet memory show --db ./closet.db --session deck-1
  closet memory clear --db ./closet.db --session deck-1`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.PersistentFlags().StringVar(&opts.Session, "session", "", "session name")

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the stored memory of a session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemoryShow(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Delete the stored memory of a session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemoryClear(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "sessions",
		Short:         "List sessions with memory or history",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemorySessions(opts, cmd)
		},
	})

	return cmd
}

func (o *MemoryOptions) requireSession() error {
	if o.Session == "" {
		o.Session = o.Config.Session
	}
	if o.Session == "" {
		return NewExitError(ExitCommandError, "--session is required")
	}
	return nil
}

func runMemoryShow(opts *MemoryOptions, cmd *cobra.Command) error {
	if err := opts.ensureConfig(); err != nil {
		return err
	}
	if err := opts.requireSession(); err != nil {
		return err
	}

	st, err := opts.openStore(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	entries, err := st.ReadMemory(cmd.Context(), opts.Session)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read memory", err)
	}
	if entries == nil {
		entries = []store.MemoryEntry{}
	}

	out := MemoryOutput{Session: opts.Session, Entries: entries}
	return opts.formatter(cmd).Success(out, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintf(w, "session %s has no memory\n", opts.Session)
			return
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value)
		}
	})
}

func runMemoryClear(opts *MemoryOptions, cmd *cobra.Command) error {
	if err := opts.ensureConfig(); err != nil {
		return err
	}
	if err := opts.requireSession(); err != nil {
		return err
	}

	st, err := opts.openStore(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	n, err := st.ClearMemory(cmd.Context(), opts.Session)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to clear memory", err)
	}

	out := map[string]any{"session": opts.Session, "cleared": n}
	return opts.formatter(cmd).Success(out, func(w io.Writer) {
		fmt.Fprintf(w, "cleared %d entries from session %s\n", n, opts.Session)
	})
}

func runMemorySessions(opts *MemoryOptions, cmd *cobra.Command) error {
	if err := opts.ensureConfig(); err != nil {
		return err
	}

	st, err := opts.openStore(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sessions, err := st.Sessions(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list sessions", err)
	}
	if sessions == nil {
		sessions = []string{}
	}

	return opts.formatter(cmd).Success(sessions, func(w io.Writer) {
		for _, s := range sessions {
			fmt.Fprintln(w, s)
		}
	})
}

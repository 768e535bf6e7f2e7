package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kleinerpirat/closet/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Session  string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the logged renders of a session",
		Long: `List the renders of a session in logical clock order.

Each entry shows the sequence number, the number of passes, the render id
and the outputs.

Example:
  closet history --db ./closet.db --session deck-1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session name")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if err := opts.ensureConfig(); err != nil {
		return err
	}
	if opts.Session == "" {
		opts.Session = opts.Config.Session
	}
	if opts.Session == "" {
		return NewExitError(ExitCommandError, "--session is required")
	}

	st, err := opts.openStore(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	records, err := st.ReadRenders(cmd.Context(), opts.Session)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read history", err)
	}
	if records == nil {
		records = []store.RenderRecord{}
	}

	return opts.formatter(cmd).Success(records, func(w io.Writer) {
		if len(records) == 0 {
			fmt.Fprintf(w, "session %s has no renders\n", opts.Session)
			return
		}
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%d passes\t%s\t%s\n", r.Seq, r.Passes, shortID(r.ID), strings.Join(r.Outputs, " | "))
		}
	})
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

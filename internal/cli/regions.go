package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kleinerpirat/closet/internal/document"
	"github.com/kleinerpirat/closet/internal/regions"
)

// NewRegionsCommand creates the regions command.
func NewRegionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "regions <document.yaml>",
		Short: "Print the region tree of a document",
		Long: `Feed a document's boundary events through the region keeper and print
the resulting tree. Start offsets are moved back and end offsets forward by
the marker width.

Example:
  closet regions deck.yaml
  closet regions deck.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegions(rootOpts, args[0], cmd)
		},
	}
}

func runRegions(opts *RootOptions, docPath string, cmd *cobra.Command) error {
	doc, err := document.Load(docPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load document", err)
	}

	roots, err := regions.Build(doc.RegionEvents())
	if err != nil {
		return WrapExitError(ExitFailure, "invalid region events", err)
	}
	if roots == nil {
		roots = []*regions.Node{}
	}

	return opts.formatter(cmd).Success(roots, func(w io.Writer) {
		for _, n := range roots {
			writeRegion(w, n, 0)
		}
	})
}

func writeRegion(w io.Writer, n *regions.Node, depth int) {
	fmt.Fprintf(w, "%s[%d, %d)", strings.Repeat("  ", depth), n.Start, n.End)
	if n.Elements != nil {
		fmt.Fprintf(w, " %v", n.Elements)
	}
	fmt.Fprintln(w)
	for _, inner := range n.Inner {
		writeRegion(w, inner, depth+1)
	}
}

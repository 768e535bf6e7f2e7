// Command closet renders pre-tokenized documents through closet's filters.
package main

import (
	"fmt"
	"os"

	"github.com/kleinerpirat/closet/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "closet:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

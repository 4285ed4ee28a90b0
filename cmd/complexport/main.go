// Command complexport exports curated protein complexes to flat files.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/complexport/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

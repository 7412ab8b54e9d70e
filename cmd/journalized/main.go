// Command journalized records and inspects attribute change journals.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/journalized/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

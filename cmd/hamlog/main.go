// Command hamlog keeps amateur radio QSO logs in SQLite and moves them in
// and out as ADIF.
package main

import (
	"fmt"
	"os"

	"github.com/iz2uqf/hamlog/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

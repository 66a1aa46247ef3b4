// Command sparqb renders SPARQL query documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sparqb/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sparqb:", err)
	}
	os.Exit(cli.GetExitCode(err))
}

// Command dcg guards a shell against destructive commands before they run.
package main

import (
	"fmt"
	"os"

	"github.com/Dicklesworthstone/dcg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

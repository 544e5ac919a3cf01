// Command mers is the reference CLI for the mers scripting language:
// run, check, and parse source files or inline expressions.
package main

import (
	"fmt"
	"os"

	"github.com/Dummi26/mers/cmd/mers/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package cmd wires mers' cobra commands (run/check/parse/version),
// adapted from the teacher's cmd/dwscript/cmd package: same
// root-command-plus-init()-registration shape, same global --verbose
// flag and version-template formatting, re-pointed at mers' own
// parse/compile/check/run pipeline (pkg/mers) instead of DWScript's
// lexer/parser/semantic/interp chain.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mers",
	Short: "mers interpreter",
	Long: `mers is a dynamically-shaped, statically-verified expression-oriented
scripting language built on whole-program union/sum types.

Every value's type is inferred from how the program uses it; every
branch of every union is checked before the program runs.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

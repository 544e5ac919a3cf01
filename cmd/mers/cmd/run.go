package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	internalerrors "github.com/Dummi26/mers/internal/errors"
	"github.com/Dummi26/mers/pkg/mers"
)

var (
	evalExpr    string
	noTypeCheck bool
	plainErrors bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a mers program",
	Long: `Execute a mers program from a file or inline expression.

Examples:
  # Run a script file
  mers run script.mers

  # Evaluate an inline expression
  mers run -e "1.sum(2).println"

  # Skip type checking before running (discouraged: a type error the
  # checker would have caught can panic instead)
  mers run --no-type-check script.mers`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&noTypeCheck, "no-type-check", false, "skip the check phase before running")
	runCmd.Flags().BoolVar(&plainErrors, "plain", false, "render diagnostics without ANSI color")
}

func runScript(_ *cobra.Command, args []string) error {
	input, baseDir, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	pf, err := loadProjectFileNear(baseDir)
	if err != nil {
		return err
	}

	engine := mers.New(
		mers.WithRuntimeCap(pf.Runtime.MaxSleepMillis),
		mers.WithStd(),
		mers.WithBaseDir(baseDir),
		mers.WithIncludeSearchPaths(pf.Include.SearchPaths...),
	)

	prog, err := engine.Compile(input)
	if err != nil {
		return reportAndFail(err)
	}

	if !noTypeCheck {
		if _, err := prog.Check(); err != nil {
			return reportAndFail(err)
		}
	} else if verbose {
		fmt.Fprintln(os.Stderr, "type checking skipped (--no-type-check)")
	}

	if _, err := prog.Run(); err != nil {
		return reportAndFail(err)
	}
	return nil
}

// readSource resolves the script's source text and the directory
// `#include` paths should first be tried relative to.
func readSource(evalExpr string, args []string) (input, baseDir string, err error) {
	if evalExpr != "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return evalExpr, wd, nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), filepath.Dir(args[0]), nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}

func reportAndFail(err error) error {
	theme := internalerrors.Theme(internalerrors.PlainTheme{})
	if !plainErrors {
		theme = internalerrors.NewANSITheme()
	}

	switch e := err.(type) {
	case *mers.CompileError:
		for _, sub := range e.Errors {
			fmt.Fprintln(os.Stderr, renderCLIError(theme, sub))
		}
		return fmt.Errorf("%s failed with %d error(s)", e.Stage, len(e.Errors))
	case *mers.RuntimeError:
		for _, sub := range e.Errors {
			fmt.Fprintln(os.Stderr, renderCLIError(theme, sub))
		}
		return fmt.Errorf("execution failed")
	default:
		fmt.Fprintln(os.Stderr, err)
		return err
	}
}

func renderCLIError(theme internalerrors.Theme, e *mers.Error) string {
	leaf := internalerrors.New(e.Tag, rangeAt(e.Line, e.Column), e.Message)
	return leaf.Render(theme)
}

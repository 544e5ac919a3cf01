package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dummi26/mers/pkg/mers"
)

var checkEvalExpr string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a mers program without running it",
	Long: `Parse and compile a mers program, then run the check phase only
(spec.md's three-phase pipeline, stopping before run). Prints the
program's inferred static type on success.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkEvalExpr, "eval", "e", "", "check inline code instead of reading from file")
}

func runCheck(_ *cobra.Command, args []string) error {
	input, baseDir, err := readSource(checkEvalExpr, args)
	if err != nil {
		return err
	}

	pf, err := loadProjectFileNear(baseDir)
	if err != nil {
		return err
	}

	engine := mers.New(
		mers.WithStd(),
		mers.WithBaseDir(baseDir),
		mers.WithIncludeSearchPaths(pf.Include.SearchPaths...),
	)

	prog, err := engine.Compile(input)
	if err != nil {
		return reportAndFail(err)
	}
	ty, err := prog.Check()
	if err != nil {
		return reportAndFail(err)
	}
	fmt.Println(ty.String())
	return nil
}

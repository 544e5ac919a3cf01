package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dummi26/mers/internal/parsed"
	"github.com/Dummi26/mers/pkg/mers"
)

var parseExpression bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse mers source and dump its AST",
	Long: `Parse mers source code and print its untyped AST.

If no file is provided, reads from stdin. Use -e to parse a single
expression given on the command line. Parsing is best-effort: a partial
AST is printed even when syntax errors are found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an expression given on the command line")
}

func runParse(_ *cobra.Command, args []string) error {
	var input string
	switch {
	case parseExpression:
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	engine := mers.New()
	tree, err := engine.Parse(input)
	if tree != nil && tree.Stmt != nil {
		dumpASTNode(tree.Stmt, 0)
	}
	if err != nil {
		return reportAndFail(err)
	}
	return nil
}

func dumpASTNode(node parsed.Stmt, indent int) {
	prefix := strings.Repeat("  ", indent)
	switch n := node.(type) {
	case parsed.Block:
		fmt.Printf("%sBlock (%d statements)\n", prefix, len(n.Stmts))
		for _, s := range n.Stmts {
			dumpASTNode(s, indent+1)
		}
	case parsed.Tuple:
		fmt.Printf("%sTuple (%d elements)\n", prefix, len(n.Elements))
		for _, s := range n.Elements {
			dumpASTNode(s, indent+1)
		}
	case parsed.Object:
		fmt.Printf("%sObject (%d fields)\n", prefix, len(n.Fields))
		for _, f := range n.Fields {
			fmt.Printf("%s  %s:\n", prefix, f.Name)
			dumpASTNode(f.Val, indent+2)
		}
	case parsed.If:
		fmt.Printf("%sIf\n", prefix)
		fmt.Printf("%s  Cond:\n", prefix)
		dumpASTNode(n.Cond, indent+2)
		fmt.Printf("%s  Then:\n", prefix)
		dumpASTNode(n.Then, indent+2)
		if n.Else != nil {
			fmt.Printf("%s  Else:\n", prefix)
			dumpASTNode(n.Else, indent+2)
		}
	case parsed.Loop:
		fmt.Printf("%sLoop\n", prefix)
		dumpASTNode(n.Body, indent+1)
	case parsed.Try:
		fmt.Printf("%sTry (%d candidate functions)\n", prefix, len(n.Funcs))
		dumpASTNode(n.Arg, indent+1)
		for _, f := range n.Funcs {
			dumpASTNode(f, indent+1)
		}
	case parsed.InitTo:
		fmt.Printf("%sInitTo\n", prefix)
		dumpASTNode(n.Pattern, indent+1)
		dumpASTNode(n.Source, indent+1)
	case parsed.AssignTo:
		fmt.Printf("%sAssignTo\n", prefix)
		dumpASTNode(n.Target, indent+1)
		dumpASTNode(n.Source, indent+1)
	case parsed.FunctionLiteral:
		fmt.Printf("%sFunctionLiteral\n", prefix)
		dumpASTNode(n.Param, indent+1)
		dumpASTNode(n.Body, indent+1)
	case parsed.Chain:
		fmt.Printf("%sChain (%d extra args)\n", prefix, len(n.Args))
		dumpASTNode(n.Arg, indent+1)
		dumpASTNode(n.Func, indent+1)
		for _, a := range n.Args {
			dumpASTNode(a, indent+1)
		}
	case parsed.AsType:
		kind := "expand"
		if n.Assert {
			kind = "assert"
		}
		fmt.Printf("%sAsType (%s)\n", prefix, kind)
		dumpASTNode(n.Expr, indent+1)
		dumpASTNode(n.Type, indent+1)
	case parsed.Variable:
		ref := ""
		if n.IsRef {
			ref = "&"
		}
		fmt.Printf("%sVariable: %s%s\n", prefix, ref, n.Name)
	case parsed.Value:
		fmt.Printf("%sValue: %s\n", prefix, dumpValue(n))
	case parsed.Ignore:
		fmt.Printf("%sIgnore\n", prefix)
	case parsed.IncludeMers:
		fmt.Printf("%sInclude: %q\n", prefix, n.Path)
	default:
		fmt.Printf("%s%T\n", prefix, node)
	}
}

func dumpValue(v parsed.Value) string {
	switch v.Kind {
	case parsed.ValueInt:
		return fmt.Sprintf("%d", v.Int)
	case parsed.ValueFloat:
		return fmt.Sprintf("%g", v.Float)
	case parsed.ValueBool:
		return fmt.Sprintf("%v", v.Bool)
	case parsed.ValueString:
		return fmt.Sprintf("%q", v.String)
	default:
		return "?"
	}
}

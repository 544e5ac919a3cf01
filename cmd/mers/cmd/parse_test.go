package cmd

import (
	"strings"
	"testing"
)

func TestRunParseExpressionDumpsAST(t *testing.T) {
	oldExpr := parseExpression
	defer func() { parseExpression = oldExpr }()
	parseExpression = true

	output, err := captureStdout(t, func() error { return runParse(nil, []string{"1.sum(2)"}) })
	if err != nil {
		t.Fatalf("runParse failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Chain") {
		t.Errorf("expected a Chain node in the dump, got %q", output)
	}
}

func TestRunParsePartialASTOnSyntaxError(t *testing.T) {
	oldExpr := parseExpression
	defer func() { parseExpression = oldExpr }()
	parseExpression = true

	output, err := captureStdout(t, func() error { return runParse(nil, []string{"1.sum("}) })
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if output == "" {
		t.Error("expected a partial AST dump even with a syntax error")
	}
}

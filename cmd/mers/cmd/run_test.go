package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), runErr
}

func TestRunScriptEvalExpression(t *testing.T) {
	oldEval := evalExpr
	defer func() { evalExpr = oldEval }()
	evalExpr = `1.sum(2).println`

	output, err := captureStdout(t, func() error { return runScript(nil, nil) })
	if err != nil {
		t.Fatalf("runScript failed: %v\noutput: %s", err, output)
	}
}

func TestRunScriptReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/main.mers"
	if err := os.WriteFile(path, []byte(`"hello".println`), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	oldEval := evalExpr
	defer func() { evalExpr = oldEval }()
	evalExpr = ""

	output, err := captureStdout(t, func() error { return runScript(nil, []string{path}) })
	if err != nil {
		t.Fatalf("runScript failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected output to contain 'hello', got %q", output)
	}
}

func TestRunScriptReportsCompileError(t *testing.T) {
	oldEval := evalExpr
	defer func() { evalExpr = oldEval }()
	evalExpr = "doesnotexist"

	_, err := captureStdout(t, func() error { return runScript(nil, nil) })
	if err == nil {
		t.Fatal("expected an error for an unresolved variable")
	}
}

func TestRunScriptRequiresFileOrEval(t *testing.T) {
	oldEval := evalExpr
	defer func() { evalExpr = oldEval }()
	evalExpr = ""

	if _, err := captureStdout(t, func() error { return runScript(nil, nil) }); err == nil {
		t.Fatal("expected an error when neither a file nor -e is given")
	}
}

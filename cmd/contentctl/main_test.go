package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func seedDir(t *testing.T) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	dir := filepath.Join(filepath.Dir(currentFile), "..", "..", "testdata", "seed")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Skipf("seed directory not found: %s", dir)
	}
	return dir
}

func setupEnv(t *testing.T) {
	t.Helper()
	color.NoColor = true
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "content.sqlite3"))
	t.Setenv("LOG_LEVEL", "error")
}

func runCmd(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestMigrateCommands(t *testing.T) {
	setupEnv(t)

	code, out, errOut := runCmd("migrate", "up")
	if code != exitOK {
		t.Fatalf("migrate up: expected exit 0, got %d (%s)", code, errOut)
	}
	if !strings.Contains(out, "schema version 2") {
		t.Errorf("Expected schema version 2, got %q", out)
	}

	if code, out, _ = runCmd("migrate", "down"); code != exitOK || !strings.Contains(out, "schema version 1") {
		t.Errorf("migrate down: got %d %q", code, out)
	}
	if code, out, _ = runCmd("migrate", "version"); code != exitOK || !strings.Contains(out, "schema version 1") {
		t.Errorf("migrate version: got %d %q", code, out)
	}
	if code, _, _ = runCmd("migrate", "sideways"); code != exitUsage {
		t.Errorf("Expected usage exit for unknown migrate action, got %d", code)
	}
}

func TestImportDirectory(t *testing.T) {
	setupEnv(t)
	dir := seedDir(t)

	code, out, errOut := runCmd("import", "-dir", dir)
	if code != exitOK {
		t.Fatalf("Expected exit 0, got %d (%s)", code, errOut)
	}
	for _, want := range []string{"users", "tech_stacks", "4/4", "ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "users") > strings.Index(out, "posts") {
		t.Errorf("Expected users to be imported before posts:\n%s", out)
	}

	// a second run rejects every record as a duplicate
	code, out, _ = runCmd("import", "-dir", dir)
	if code != exitOK {
		t.Errorf("Expected exit 0 without -strict, got %d", code)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("Expected duplicate errors in output:\n%s", out)
	}

	if code, _, _ = runCmd("import", "-dir", dir, "-strict"); code != exitFailed {
		t.Errorf("Expected exit %d with -strict, got %d", exitFailed, code)
	}
}

func TestImportSingleFile(t *testing.T) {
	setupEnv(t)

	file := filepath.Join(t.TempDir(), "tags.ndjson")
	if err := os.WriteFile(file, []byte("{\"name\":\"Go\"}\n{\"name\":\"\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCmd("import", "-resource", "tags", "-file", file)
	if code != exitOK {
		t.Fatalf("Expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "1/2") || !strings.Contains(out, "line 2") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestUsageErrors(t *testing.T) {
	setupEnv(t)

	tests := [][]string{
		{},
		{"bogus"},
		{"import"},
		{"import", "-resource", "comments", "-file", "x.ndjson"},
		{"import", "-dir", "a", "-resource", "tags"},
		{"import", "-dir", t.TempDir()},
	}
	for _, args := range tests {
		if code, _, _ := runCmd(args...); code != exitUsage {
			t.Errorf("%v: expected exit %d, got %d", args, exitUsage, code)
		}
	}

	if code, _, _ := runCmd("import", "-resource", "tags", "-file", "/does/not/exist.ndjson"); code != exitError {
		t.Errorf("Expected exit %d for a missing file, got %d", exitError, code)
	}
}

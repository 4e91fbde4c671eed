package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCommand executes the CLI with args against root and returns stdout.
func runCommand(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "test.log")
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--root", root, "--log-file", logFile))
	err := cmd.Execute()
	return out.String(), err
}

func newCommandTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "src/auth.js", "import { hash } from './crypto';\nexport function login(user) {\n  return hash(user);\n}\n")
	writeFile(t, root, "src/crypto.js", "export function hash(value) {\n  return value;\n}\n")
	writeFile(t, root, "README.md", "# Authentication\n")
	return root
}

func Test_IndexCommand_PrintsStatsAndWritesSnapshot(t *testing.T) {
	root := newCommandTree(t)
	snapshotPath := filepath.Join(t.TempDir(), "index.yaml")

	out, err := runCommand(t, root, "index", "--out", snapshotPath)
	if err != nil {
		t.Fatalf("index failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Indexed 3 files") {
		t.Errorf("expected stats line, got:\n%s", out)
	}
	if !strings.Contains(out, "Snapshot written to "+snapshotPath) {
		t.Errorf("expected snapshot notice, got:\n%s", out)
	}
	if _, err := os.Stat(snapshotPath); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}
}

func Test_SearchCommand(t *testing.T) {
	root := newCommandTree(t)

	out, err := runCommand(t, root, "search", "login", "--type", "function")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "src/auth.js  [function-exact: login]") {
		t.Errorf("expected auth.js result, got:\n%s", out)
	}
}

func Test_SearchCommand_FromSnapshot(t *testing.T) {
	root := newCommandTree(t)
	snapshotPath := filepath.Join(t.TempDir(), "index.json")
	if out, err := runCommand(t, root, "index", "--out", snapshotPath); err != nil {
		t.Fatalf("index failed: %v\n%s", err, out)
	}
	if err := os.Remove(filepath.Join(root, "src", "auth.js")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	out, err := runCommand(t, root, "search", "login", "--snapshot", snapshotPath)
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "src/auth.js") {
		t.Errorf("expected the snapshot to answer for the removed file, got:\n%s", out)
	}
}

func Test_SearchCommand_InvalidType(t *testing.T) {
	root := newCommandTree(t)

	if _, err := runCommand(t, root, "search", "login", "--type", "method"); err == nil {
		t.Fatal("expected an error for an unknown search type")
	}
}

func Test_RelatedCommand(t *testing.T) {
	root := newCommandTree(t)

	out, err := runCommand(t, root, "related", "src/auth.js")
	if err != nil {
		t.Fatalf("related failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "src/crypto.js  (imported)") {
		t.Errorf("expected crypto.js as imported, got:\n%s", out)
	}
}

func Test_RootCommand_InvalidConfig(t *testing.T) {
	root := newCommandTree(t)

	if _, err := runCommand(t, root, "index", "--log-level", "verbose"); err == nil {
		t.Fatal("expected invalid log level to be rejected")
	}
}

func Test_RootCommand_ConfigFileInRoot(t *testing.T) {
	root := newCommandTree(t)
	writeFile(t, root, ".codesearch.yaml", "exclude_globs:\n  - \"**/*.md\"\n")

	out, err := runCommand(t, root, "index")
	if err != nil {
		t.Fatalf("index failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Indexed 2 files") {
		t.Errorf("expected README.md to be excluded by the config file, got:\n%s", out)
	}
}

func Test_SearchCommand_DefaultLimit(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 15; i++ {
		writeFile(t, root, fmt.Sprintf("src/widget%02d.js", i), "export const x = 1;\n")
	}

	out, err := runCommand(t, root, "search", "widget")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `Found 10 results for "widget":`) {
		t.Errorf("expected the default limit of 10, got:\n%s", out)
	}
}

func Test_IndexCommand_ConfiguredSnapshotIsNotIndexed(t *testing.T) {
	root := newCommandTree(t)
	writeFile(t, root, ".codesearch.yaml", "snapshot:\n  path: index.json\n")

	for i := 0; i < 2; i++ {
		out, err := runCommand(t, root, "index")
		if err != nil {
			t.Fatalf("index failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "Indexed 3 files") {
			t.Errorf("run %d: expected the snapshot to stay out of the index, got:\n%s", i, out)
		}
		if !strings.Contains(out, "Snapshot written to "+filepath.Join(root, "index.json")) {
			t.Errorf("run %d: expected the snapshot in the root, got:\n%s", i, out)
		}
	}
}

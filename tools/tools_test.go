package tools

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var sampleTree = map[string]string{
	"src/auth.js":   "import { hash } from './crypto';\n\nexport function login(user) {\n  return hash(user);\n}\n",
	"src/crypto.js": "export function hash(value) {\n  return value;\n}\n",
	"src/widget.ts": "export class Widget {\n  render() {}\n}\n",
	"package.json":  `{"name":"demo","dependencies":{"react":"18.0.0"}}`,
	"README.md":     "# Authentication Guide\n\nHow login works.\n",
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine writes files under a temp root and returns an engine that has
// not indexed yet.
func newTestEngine(t *testing.T, files map[string]string) *engine.Engine {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	eng := engine.New(engine.Options{
		RootDir:  root,
		FullText: true,
		Logger:   testLogger(),
	})
	t.Cleanup(func() { eng.Close() })
	return eng
}

// newIndexedEngine is newTestEngine followed by one pass.
func newIndexedEngine(t *testing.T, files map[string]string) *engine.Engine {
	t.Helper()
	eng := newTestEngine(t, files)
	if _, err := eng.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return eng
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected *mcp.TextContent, got %T", result.Content[0])
	}
	return text.Text
}

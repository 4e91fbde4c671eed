package tools

import (
	"context"
	"strings"
	"testing"
)

func Test_FilesHandler_EmptyPattern(t *testing.T) {
	h := &FilesHandler{Engine: newTestEngine(t, sampleTree), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty pattern")
	}
	if text := resultText(t, result); !strings.Contains(text, "pattern parameter is required") {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_FilesHandler_GlobMatch(t *testing.T) {
	h := &FilesHandler{Engine: newIndexedEngine(t, sampleTree), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "src/*.js"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Found 2 files") {
		t.Errorf("expected 2 files, got:\n%s", text)
	}
	if !strings.Contains(text, "src/auth.js  (JavaScript") {
		t.Errorf("expected metadata for src/auth.js, got:\n%s", text)
	}
	if strings.Contains(text, "widget.ts") {
		t.Errorf("did not expect widget.ts, got:\n%s", text)
	}
}

func Test_FilesHandler_NameOnly(t *testing.T) {
	h := &FilesHandler{Engine: newIndexedEngine(t, sampleTree), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "**/*.md", NameOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "\nREADME.md\n") {
		t.Errorf("expected bare README.md line, got:\n%s", text)
	}
	if strings.Contains(text, "lines)") {
		t.Errorf("expected no metadata in name-only mode, got:\n%s", text)
	}
}

func Test_FilesHandler_InvalidPattern(t *testing.T) {
	h := &FilesHandler{Engine: newIndexedEngine(t, sampleTree), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "src/[.js"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for a malformed glob")
	}
}

func Test_ReadHandler_ReturnsNumberedLines(t *testing.T) {
	h := &ReadHandler{Engine: newIndexedEngine(t, sampleTree), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "src/crypto.js"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "── src/crypto.js (4 lines) ──") {
		t.Errorf("expected header, got:\n%s", text)
	}
	if !strings.Contains(text, "1│ export function hash(value) {") {
		t.Errorf("expected numbered first line, got:\n%s", text)
	}
}

func Test_ReadHandler_NotFound(t *testing.T) {
	h := &ReadHandler{Engine: newIndexedEngine(t, sampleTree), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "nope.js"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for a missing file")
	}
	if text := resultText(t, result); !strings.Contains(text, "File not found in index: nope.js") {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_ReadHandler_EmptyPath(t *testing.T) {
	h := &ReadHandler{Engine: newTestEngine(t, sampleTree), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty filePath")
	}
}

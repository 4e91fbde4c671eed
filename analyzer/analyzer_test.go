package analyzer

import (
	"strings"
	"testing"

	"github.com/lexandro/codesearch-mcp/index"
	"github.com/lexandro/codesearch-mcp/language"
)

type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(string, []byte) (Result, error) {
	panic("boom")
}

func Test_Registry_DispatchesByCategory(t *testing.T) {
	registry := NewRegistry()

	result, err := registry.Analyze(language.CategoryJSON, "a.json", []byte(`{"k":1}`))
	if err != nil || result.JSON == nil {
		t.Fatalf("expected JSON payload, got %+v (%v)", result, err)
	}
	result, err = registry.Analyze(language.CategoryMarkdown, "a.md", []byte("# Title"))
	if err != nil || result.Markdown == nil {
		t.Fatalf("expected markdown payload, got %+v (%v)", result, err)
	}
	result, err = registry.Analyze(language.CategorySource, "a.ts", []byte("class Foo {}"))
	if err != nil || result.Source == nil {
		t.Fatalf("expected source payload, got %+v (%v)", result, err)
	}
}

func Test_Registry_UnknownCategory(t *testing.T) {
	result, err := NewRegistry().Analyze(language.CategoryOther, "a.txt", []byte("text"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != nil || result.JSON != nil || result.Markdown != nil {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func Test_Registry_RecoversPanic(t *testing.T) {
	registry := NewRegistry()
	registry.Register(language.CategorySource, panickingAnalyzer{})

	_, err := registry.Analyze(language.CategorySource, "bad.js", []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected recovered panic error, got %v", err)
	}
}

func Test_Result_Apply(t *testing.T) {
	file := &index.IndexedFile{RelativePath: "a.md"}
	Result{Markdown: &index.MarkdownInfo{Headers: []string{"Title"}}}.Apply(file)

	if file.Markdown == nil || file.Source != nil || file.JSON != nil {
		t.Errorf("unexpected payloads after apply: %+v", file)
	}
}

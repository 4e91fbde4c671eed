// Package analyzer extracts symbols, metadata and keywords from file contents.
// Each content category has its own Analyzer; a Registry picks one per file.
package analyzer

import (
	"fmt"

	"github.com/lexandro/codesearch-mcp/index"
	"github.com/lexandro/codesearch-mcp/language"
)

// Result is the output of one analysis. At most one payload is set, matching
// the analyzer's category. Keywords are merged into the keyword postings.
type Result struct {
	Source   *index.SourceInfo
	JSON     *index.JSONInfo
	Markdown *index.MarkdownInfo
	Keywords []string
}

// Apply copies the payload onto the file record.
func (r Result) Apply(file *index.IndexedFile) {
	file.Source = r.Source
	file.JSON = r.JSON
	file.Markdown = r.Markdown
}

// Analyzer extracts a category payload from file content. On error the
// returned Result may still carry whatever was extracted before the failure.
type Analyzer interface {
	Analyze(relativePath string, content []byte) (Result, error)
}

// Registry maps content categories to analyzers.
type Registry struct {
	analyzers map[language.Category]Analyzer
}

// NewRegistry returns a registry with the built-in source, JSON and Markdown
// analyzers registered.
func NewRegistry() *Registry {
	r := &Registry{analyzers: make(map[language.Category]Analyzer)}
	r.Register(language.CategorySource, NewSourceAnalyzer())
	r.Register(language.CategoryJSON, NewJSONAnalyzer())
	r.Register(language.CategoryMarkdown, NewMarkdownAnalyzer())
	return r
}

// Register sets the analyzer for a category, replacing any previous one.
func (r *Registry) Register(category language.Category, analyzer Analyzer) {
	r.analyzers[category] = analyzer
}

// Analyze runs the analyzer registered for category. Categories without an
// analyzer yield an empty Result. A panicking analyzer is reported as an error.
func (r *Registry) Analyze(category language.Category, relativePath string, content []byte) (result Result, err error) {
	analyzer, ok := r.analyzers[category]
	if !ok {
		return Result{}, nil
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			result = Result{}
			err = fmt.Errorf("analyzer panic on %s: %v", relativePath, recovered)
		}
	}()
	return analyzer.Analyze(relativePath, content)
}

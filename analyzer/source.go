package analyzer

import (
	"regexp"

	"github.com/lexandro/codesearch-mcp/index"
)

var (
	functionPattern = regexp.MustCompile(
		`\bfunction\b\s*\*?\s*([A-Za-z_$][\w$]*)` +
			`|\b(?:const|let)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>|[A-Za-z_$][\w$]*\s*=>)`)

	classPattern = regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)`)

	importPattern = regexp.MustCompile(
		`(?:\bimport\s*\(\s*|\brequire\s*\(\s*|\bimport\s+|\bfrom\s+)['"]([^'"\n]+)['"]`)

	// Destructured and re-export lists (export { a, b }, export * from) are not
	// recognized.
	exportPattern = regexp.MustCompile(
		`\bexport\s+(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?(?:async\s+)?` +
			`(?:(?:function\s*\*?|class|const|let|var|type|interface|enum|namespace)\s+)?([A-Za-z_$][\w$]*)` +
			`|\bmodule\.exports\s*=\s*([A-Za-z_$][\w$]*)` +
			`|\b(?:module\.)?exports\.([A-Za-z_$][\w$]*)\s*=[^=]`)
)

// Words that the export pattern can capture in place of a name.
var exportKeywords = map[string]bool{
	"function": true, "class": true, "const": true, "let": true, "var": true,
	"type": true, "interface": true, "enum": true, "namespace": true,
	"async": true, "default": true, "declare": true, "abstract": true, "new": true,
}

// SourceAnalyzer extracts symbols from JavaScript and TypeScript with regular
// expressions. It does not parse the language.
type SourceAnalyzer struct {
	maxKeywords int
}

// NewSourceAnalyzer returns a source analyzer keeping the 50 most frequent
// keywords per file.
func NewSourceAnalyzer() *SourceAnalyzer {
	return &SourceAnalyzer{maxKeywords: defaultMaxKeywords}
}

func (a *SourceAnalyzer) Analyze(relativePath string, content []byte) (Result, error) {
	text := string(content)
	info := &index.SourceInfo{
		Functions: extractFunctions(text),
		Classes:   firstGroups(classPattern, text),
		Imports:   firstGroups(importPattern, text),
		Exports:   extractExports(text),
	}
	return Result{
		Source:   info,
		Keywords: TopKeywords(text, a.maxKeywords),
	}, nil
}

// extractFunctions returns one name per declaration match, duplicates included.
func extractFunctions(text string) []string {
	var names []string
	for _, m := range functionPattern.FindAllStringSubmatch(text, -1) {
		if name := firstNonEmpty(m[1:]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func extractExports(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range exportPattern.FindAllStringSubmatch(text, -1) {
		name := firstNonEmpty(m[1:])
		if name == "" || exportKeywords[name] || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func firstGroups(pattern *regexp.Regexp, text string) []string {
	var values []string
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		values = append(values, m[1])
	}
	return values
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

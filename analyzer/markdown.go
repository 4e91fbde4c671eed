package analyzer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/lexandro/codesearch-mcp/index"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const minHeaderWordLength = 5

// MarkdownAnalyzer records ATX headers (# through ######). Setext headers and
// lines inside code blocks are ignored.
type MarkdownAnalyzer struct {
	parser parser.Parser
}

func NewMarkdownAnalyzer() *MarkdownAnalyzer {
	return &MarkdownAnalyzer{parser: goldmark.DefaultParser()}
}

func (a *MarkdownAnalyzer) Analyze(relativePath string, content []byte) (Result, error) {
	document := a.parser.Parse(text.NewReader(content))

	headers := []string{}
	err := ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if header, ok := atxHeaderText(heading, content); ok && header != "" {
			headers = append(headers, header)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Markdown: &index.MarkdownInfo{Headers: headers},
		Keywords: headerWords(headers),
	}, nil
}

// atxHeaderText returns the raw text of a heading if it was written in ATX
// form, i.e. its line starts with '#'.
func atxHeaderText(heading *ast.Heading, source []byte) (string, bool) {
	lines := heading.Lines()
	if lines == nil || lines.Len() == 0 {
		return "", false
	}
	first := lines.At(0)
	lineStart := bytes.LastIndexByte(source[:first.Start], '\n') + 1
	prefix := bytes.TrimSpace(source[lineStart:first.Start])
	if len(prefix) == 0 || prefix[0] != '#' {
		return "", false
	}

	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
	return strings.TrimSpace(buf.String()), true
}

func headerWords(headers []string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, header := range headers {
		for _, word := range strings.Fields(strings.ToLower(header)) {
			if utf8.RuneCountInString(word) < minHeaderWordLength || seen[word] {
				continue
			}
			seen[word] = true
			words = append(words, word)
		}
	}
	return words
}

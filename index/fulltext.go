package index

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"
)

// ErrClosed is returned by a FullText store that was closed after its index
// was superseded.
var ErrClosed = errors.New("full-text store closed")

// FullText is a content store for line-level search, backed by an in-memory
// Bleve index. One store is built per index pass alongside the Index.
type FullText struct {
	mu       sync.RWMutex
	index    bleve.Index
	contents map[string]string // key: relative path
	closed   bool
}

// fullTextDocument is the document structure stored in Bleve.
type fullTextDocument struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Language string `json:"language"`
}

// NewFullText creates an empty in-memory store.
func NewFullText() (*FullText, error) {
	bleveIndex, err := bleve.NewMemOnly(buildFullTextMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return &FullText{
		index:    bleveIndex,
		contents: make(map[string]string),
	}, nil
}

func buildFullTextMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Content is kept in the contents map; Bleve only needs the terms.
	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.IncludeInAll = true
	docMapping.AddFieldMappingsAt("content", contentField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Store = true
	pathField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", pathField)

	languageField := bleve.NewKeywordFieldMapping()
	languageField.Store = true
	languageField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("language", languageField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Add indexes one file's content.
func (ft *FullText) Add(relativePath string, content string, language string) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if ft.closed {
		return ErrClosed
	}

	ft.contents[relativePath] = content
	doc := fullTextDocument{Content: content, Path: relativePath, Language: language}
	if err := ft.index.Index(relativePath, doc); err != nil {
		return fmt.Errorf("indexing content of %s: %w", relativePath, err)
	}
	return nil
}

// Content returns the stored content of a file.
func (ft *FullText) Content(relativePath string) (string, bool) {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	content, ok := ft.contents[strings.ReplaceAll(relativePath, "\\", "/")]
	return content, ok
}

// DocumentCount returns the number of documents in the Bleve index.
func (ft *FullText) DocumentCount() uint64 {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	if ft.closed {
		return 0
	}
	count, _ := ft.index.DocCount()
	return count
}

// Close releases the Bleve index. Further searches return ErrClosed.
func (ft *FullText) Close() error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if ft.closed {
		return nil
	}
	ft.closed = true
	return ft.index.Close()
}

// GrepOptions configures a content search.
type GrepOptions struct {
	Query        string
	FileGlob     string
	MaxResults   int
	ContextLines int
}

// GrepResult groups the matching lines of one file.
type GrepResult struct {
	RelativePath string
	Matches      []LineMatch
}

// LineMatch is a single matching line with optional surrounding context.
type LineMatch struct {
	LineNumber    int // 1-based
	LineText      string
	ContextBefore []string
	ContextAfter  []string
}

// Search runs a content query. Query syntax:
//   - plain words: files containing any of the words
//   - "quoted text": exact phrase
//   - /regex/: regular expression
//
// Returns the per-file results and the total number of matching lines.
func (ft *FullText) Search(options GrepOptions) ([]GrepResult, int, error) {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	if ft.closed {
		return nil, 0, ErrClosed
	}

	if options.MaxResults <= 0 {
		options.MaxResults = 50
	}
	if options.ContextLines < 0 {
		options.ContextLines = 0
	}
	glob := strings.ReplaceAll(options.FileGlob, "\\", "/")
	if glob != "" && !doublestar.ValidatePattern(glob) {
		return nil, 0, fmt.Errorf("invalid glob pattern: %s", glob)
	}

	bleveQuery, lineMatcher, err := parseGrepQuery(options.Query)
	if err != nil {
		return nil, 0, err
	}

	request := bleve.NewSearchRequest(bleveQuery)
	// Over-fetch: hits are filtered by glob and by line matching below.
	request.Size = options.MaxResults * 5
	searchResults, err := ft.index.Search(request)
	if err != nil {
		return nil, 0, fmt.Errorf("searching content: %w", err)
	}

	var results []GrepResult
	totalMatches := 0
	for _, hit := range searchResults.Hits {
		if len(results) >= options.MaxResults {
			break
		}
		content, ok := ft.contents[hit.ID]
		if !ok {
			continue
		}
		if glob != "" {
			if matched, _ := doublestar.Match(glob, hit.ID); !matched {
				continue
			}
		}
		matches := matchLines(content, lineMatcher, options.ContextLines)
		if len(matches) == 0 {
			continue
		}
		totalMatches += len(matches)
		results = append(results, GrepResult{RelativePath: hit.ID, Matches: matches})
	}

	return results, totalMatches, nil
}

// parseGrepQuery turns the query string into a Bleve query plus a predicate
// used to pick the matching lines out of a hit.
func parseGrepQuery(queryString string) (query.Query, func(line string) bool, error) {
	queryString = strings.TrimSpace(queryString)
	if queryString == "" {
		return nil, nil, errors.New("empty query")
	}

	if len(queryString) > 2 && strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") {
		pattern := queryString[1 : len(queryString)-1]
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid regular expression: %w", err)
		}
		return bleve.NewRegexpQuery(pattern), re.MatchString, nil
	}

	if len(queryString) > 2 && strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") {
		phrase := queryString[1 : len(queryString)-1]
		needle := strings.ToLower(phrase)
		return bleve.NewMatchPhraseQuery(phrase), func(line string) bool {
			return strings.Contains(strings.ToLower(line), needle)
		}, nil
	}

	words := strings.Fields(strings.ToLower(queryString))
	return bleve.NewMatchQuery(queryString), func(line string) bool {
		lower := strings.ToLower(line)
		for _, word := range words {
			if strings.Contains(lower, word) {
				return true
			}
		}
		return false
	}, nil
}

// matchLines returns every line accepted by match, with contextLines of
// surrounding text on each side.
func matchLines(content string, match func(line string) bool, contextLines int) []LineMatch {
	lines := strings.Split(content, "\n")
	var matches []LineMatch
	for i, line := range lines {
		if !match(line) {
			continue
		}
		lineMatch := LineMatch{LineNumber: i + 1, LineText: line}
		if contextLines > 0 {
			lineMatch.ContextBefore = lines[max(0, i-contextLines):i]
			lineMatch.ContextAfter = lines[i+1 : min(len(lines), i+1+contextLines)]
		}
		matches = append(matches, lineMatch)
	}
	return matches
}

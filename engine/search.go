package engine

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/lexandro/codesearch-mcp/index"
)

// ErrInvalidSearchType is returned for a search type other than the SearchType
// constants.
var ErrInvalidSearchType = errors.New("invalid search type")

const defaultSearchLimit = 10

// SearchType restricts which symbol signals a search runs. Filename and path
// matching run for every type.
type SearchType string

const (
	SearchAll      SearchType = "all"
	SearchFunction SearchType = "function"
	SearchClass    SearchType = "class"
	SearchFile     SearchType = "file"
)

// MatchType names the signal that produced a result's score.
type MatchType string

const (
	MatchFunctionExact   MatchType = "function-exact"
	MatchFunctionPartial MatchType = "function-partial"
	MatchClassExact      MatchType = "class-exact"
	MatchClassPartial    MatchType = "class-partial"
	MatchKeyword         MatchType = "keyword"
	MatchFilename        MatchType = "filename"
	MatchPath            MatchType = "path"
)

// Signal scores.
const (
	scoreSymbolExact   = 100
	scoreSymbolPartial = 80
	scoreKeywordWord   = 10
	scoreNameExact     = 90
	scoreNamePrefix    = 70
	scoreNameContains  = 50
	scorePathOnly      = 30
	scorePathLast      = 60
	scorePathOther     = 40
)

// SearchOptions configures Search. The zero value searches every signal and
// returns up to 10 results.
type SearchOptions struct {
	Limit int
	Type  SearchType
	// Extension keeps only files with this extension. The leading dot is
	// optional and the comparison ignores case.
	Extension string
}

// SearchResult is one file matched by a search, with the best score any
// signal gave it. Symbol is set for function and class matches.
type SearchResult struct {
	File      *index.IndexedFile
	MatchType MatchType
	Score     int
	Symbol    string
}

// Search ranks indexed files against query. The index is built first if no
// pass has been published yet.
func (e *Engine) Search(ctx context.Context, query string, options SearchOptions) ([]SearchResult, error) {
	if options.Type == "" {
		options.Type = SearchAll
	}
	switch options.Type {
	case SearchAll, SearchFunction, SearchClass, SearchFile:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSearchType, options.Type)
	}

	idx, err := e.ensureIndexed(ctx)
	if err != nil {
		return nil, err
	}
	return searchIndex(idx, query, options), nil
}

// searchIndex runs every applicable signal, keeps the best result per file and
// orders by descending score, then by path.
func searchIndex(idx *index.Index, query string, options SearchOptions) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	limit := options.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	merged := newResultSet()
	if options.Type == SearchAll || options.Type == SearchFunction {
		idx.EachFunction(func(name string, paths []string) bool {
			matchSymbol(idx, merged, query, name, paths, MatchFunctionExact, MatchFunctionPartial)
			return true
		})
	}
	if options.Type == SearchAll || options.Type == SearchClass {
		idx.EachClass(func(name string, paths []string) bool {
			matchSymbol(idx, merged, query, name, paths, MatchClassExact, MatchClassPartial)
			return true
		})
	}
	if options.Type == SearchAll || options.Type == SearchFile {
		matchKeywords(idx, merged, strings.Fields(query))
	}
	for _, file := range idx.Files() {
		matchFilename(merged, query, file)
		matchPath(merged, query, file)
	}

	results := merged.sorted()
	if options.Extension != "" {
		results = slices.DeleteFunc(results, func(r SearchResult) bool {
			return !extensionMatches(r.File.Extension, options.Extension)
		})
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func matchSymbol(idx *index.Index, merged *resultSet, query, name string, paths []string, exact, partial MatchType) {
	lowerName := strings.ToLower(name)
	var matchType MatchType
	var score int
	switch {
	case lowerName == query:
		matchType, score = exact, scoreSymbolExact
	case strings.Contains(lowerName, query) || strings.Contains(query, lowerName):
		matchType, score = partial, scoreSymbolPartial
	default:
		return
	}
	for _, p := range paths {
		if file, ok := idx.File(p); ok {
			merged.offer(SearchResult{File: file, MatchType: matchType, Score: score, Symbol: name})
		}
	}
}

// matchKeywords adds 10 per distinct query word found in a file's keywords.
func matchKeywords(idx *index.Index, merged *resultSet, words []string) {
	scores := make(map[string]int)
	var order []string
	seen := make(map[string]bool, len(words))
	for _, word := range words {
		if seen[word] {
			continue
		}
		seen[word] = true
		for _, p := range idx.KeywordFiles(word) {
			if scores[p] == 0 {
				order = append(order, p)
			}
			scores[p] += scoreKeywordWord
		}
	}
	for _, p := range order {
		if file, ok := idx.File(p); ok {
			merged.offer(SearchResult{File: file, MatchType: MatchKeyword, Score: scores[p]})
		}
	}
}

func matchFilename(merged *resultSet, query string, file *index.IndexedFile) {
	lowerPath := strings.ToLower(file.RelativePath)
	if !strings.Contains(lowerPath, query) {
		return
	}
	base := path.Base(lowerPath)
	stem := strings.TrimSuffix(base, path.Ext(base))

	score := scorePathOnly
	switch {
	case stem == query || base == query:
		score = scoreNameExact
	case strings.HasPrefix(base, query):
		score = scoreNamePrefix
	case strings.Contains(base, query):
		score = scoreNameContains
	}
	merged.offer(SearchResult{File: file, MatchType: MatchFilename, Score: score})
}

func matchPath(merged *resultSet, query string, file *index.IndexedFile) {
	lowerPath := strings.ToLower(file.RelativePath)
	if !strings.Contains(lowerPath, query) {
		return
	}
	score := scorePathOther
	if strings.Contains(path.Base(lowerPath), query) {
		score = scorePathLast
	}
	merged.offer(SearchResult{File: file, MatchType: MatchPath, Score: score})
}

func extensionMatches(extension, want string) bool {
	if !strings.HasPrefix(want, ".") {
		want = "." + want
	}
	return strings.EqualFold(extension, want)
}

// resultSet keeps the highest-scoring result per file. On equal scores the
// first offered result stays.
type resultSet struct {
	best map[string]SearchResult
}

func newResultSet() *resultSet {
	return &resultSet{best: make(map[string]SearchResult)}
}

func (s *resultSet) offer(result SearchResult) {
	key := result.File.RelativePath
	if current, ok := s.best[key]; ok && current.Score >= result.Score {
		return
	}
	s.best[key] = result
}

func (s *resultSet) sorted() []SearchResult {
	results := make([]SearchResult, 0, len(s.best))
	for _, result := range s.best {
		results = append(results, result)
	}
	slices.SortFunc(results, func(a, b SearchResult) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.File.RelativePath, b.File.RelativePath)
	})
	return results
}

// Package index holds the in-memory code index: file records, symbol postings,
// import/export edges and keyword postings produced by one index pass.
package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Index is an immutable result of one index pass. It is built by a Builder (or
// restored from a Snapshot) and never modified after it is returned, so it can
// be read concurrently without locks.
type Index struct {
	passID      string
	files       map[string]*IndexedFile // key: relative path (forward slashes)
	order       []string                // insertion order
	sortedPaths []string                // sorted for glob iteration
	functions   *postings               // name -> declaring files
	classes     *postings               // name -> declaring files
	imports     *postings               // file -> raw specifiers
	exports     *postings               // file -> exported names
	keywords    *postings               // lowercase token -> files
	stats       Stats
	fullText    *FullText
}

func newIndex(passID string) *Index {
	return &Index{
		passID:    passID,
		files:     make(map[string]*IndexedFile),
		functions: newPostings(),
		classes:   newPostings(),
		imports:   newPostings(),
		exports:   newPostings(),
		keywords:  newPostings(),
	}
}

// PassID identifies the pass (or snapshot import) that produced this index.
func (idx *Index) PassID() string {
	return idx.passID
}

// Stats returns the aggregate counters of the pass.
func (idx *Index) Stats() Stats {
	return idx.stats
}

// File returns the record for a relative path.
func (idx *Index) File(relativePath string) (*IndexedFile, bool) {
	file, ok := idx.files[relativePath]
	return file, ok
}

// FileCount returns the number of indexed files.
func (idx *Index) FileCount() int {
	return len(idx.files)
}

// Files returns all records in the order they were indexed.
func (idx *Index) Files() []*IndexedFile {
	result := make([]*IndexedFile, 0, len(idx.order))
	for _, path := range idx.order {
		result = append(result, idx.files[path])
	}
	return result
}

// EachFunction visits function postings in insertion order until fn returns false.
func (idx *Index) EachFunction(fn func(name string, paths []string) bool) {
	idx.functions.each(fn)
}

// EachClass visits class postings in insertion order until fn returns false.
func (idx *Index) EachClass(fn func(name string, paths []string) bool) {
	idx.classes.each(fn)
}

// FunctionFiles returns the files declaring a function with exactly this name.
func (idx *Index) FunctionFiles(name string) []string {
	return idx.functions.get(name)
}

// ClassFiles returns the files declaring a class with exactly this name.
func (idx *Index) ClassFiles(name string) []string {
	return idx.classes.get(name)
}

// Imports returns the raw import specifiers recorded for a file.
func (idx *Index) Imports(relativePath string) []string {
	return idx.imports.get(relativePath)
}

// Exports returns the exported names recorded for a file.
func (idx *Index) Exports(relativePath string) []string {
	return idx.exports.get(relativePath)
}

// KeywordFiles returns the files posted under a keyword. The lookup is case-insensitive.
func (idx *Index) KeywordFiles(keyword string) []string {
	return idx.keywords.get(strings.ToLower(keyword))
}

// KeywordCount returns the number of distinct keyword terms.
func (idx *Index) KeywordCount() int {
	return idx.keywords.len()
}

// FullText returns the content store built with this index, or nil when the
// index was restored from a snapshot or built without one.
func (idx *Index) FullText() *FullText {
	return idx.fullText
}

// LanguageCounts returns a map of language -> file count for all indexed files.
func (idx *Index) LanguageCounts() map[string]int {
	counts := make(map[string]int)
	for _, file := range idx.files {
		counts[file.Language]++
	}
	return counts
}

// SearchByGlob returns files matching a doublestar glob pattern.
// The pattern is matched against relative paths (forward slashes).
func (idx *Index) SearchByGlob(pattern string, maxResults int) ([]*IndexedFile, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	// Normalize pattern to forward slashes
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	var results []*IndexedFile
	for _, path := range idx.sortedPaths {
		if len(results) >= maxResults {
			break
		}
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			results = append(results, idx.files[path])
		}
	}
	return results, nil
}

// finish computes derived lookup structures once all files are present.
func (idx *Index) finish() {
	idx.sortedPaths = make([]string, len(idx.order))
	copy(idx.sortedPaths, idx.order)
	sort.Strings(idx.sortedPaths)
}

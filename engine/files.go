package engine

import (
	"context"
	"errors"

	"github.com/lexandro/codesearch-mcp/index"
)

// Files returns indexed files whose relative path matches a doublestar glob.
func (e *Engine) Files(ctx context.Context, pattern string, maxResults int) ([]*index.IndexedFile, error) {
	idx, err := e.ensureIndexed(ctx)
	if err != nil {
		return nil, err
	}
	return idx.SearchByGlob(pattern, maxResults)
}

// Grep searches file contents through the content store of the published
// index. If a pass replaces the index mid-query the search moves on to the
// newly published one.
func (e *Engine) Grep(ctx context.Context, options index.GrepOptions) ([]index.GrepResult, int, error) {
	idx, err := e.ensureIndexed(ctx)
	if err != nil {
		return nil, 0, err
	}

	for {
		results, total, err := grepIndex(idx, options)
		if !errors.Is(err, index.ErrClosed) {
			return results, total, err
		}
		// A store is only closed after its index was replaced.
		next := e.current.Load()
		if next == idx {
			return nil, 0, err
		}
		idx = next
	}
}

func grepIndex(idx *index.Index, options index.GrepOptions) ([]index.GrepResult, int, error) {
	fullText := idx.FullText()
	if fullText == nil {
		return nil, 0, ErrFullTextUnavailable
	}
	return fullText.Search(options)
}

// ReadContent returns the indexed content of a file when the published index
// has a content store.
func (e *Engine) ReadContent(relativePath string) (string, bool) {
	idx := e.current.Load()
	if idx == nil || idx.FullText() == nil {
		return "", false
	}
	return idx.FullText().Content(e.relativeKey(relativePath))
}

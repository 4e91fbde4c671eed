package engine

import (
	"context"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lexandro/codesearch-mcp/index"
	"github.com/lexandro/codesearch-mcp/language"
)

const maxRelatedFiles = 10

// Reason explains why a file was suggested as related.
type Reason string

const (
	ReasonImported      Reason = "imported"
	ReasonSameDirectory Reason = "same-directory"
	ReasonSimilarName   Reason = "similar-name"
)

const (
	scoreImported      = 90
	scoreSameDirectory = 50
	scoreSimilarName   = 40
)

// RelatedFile is a suggestion for a file worth viewing next to another one.
type RelatedFile struct {
	File   *index.IndexedFile
	Reason Reason
	Score  int
}

// SuggestRelated returns up to 10 files related to relativePath: files it
// imports through relative specifiers, files in the same directory and files
// with a similar name. An unknown path yields no suggestions.
func (e *Engine) SuggestRelated(ctx context.Context, relativePath string) ([]RelatedFile, error) {
	idx, err := e.ensureIndexed(ctx)
	if err != nil {
		return nil, err
	}
	return suggestRelated(idx, e.relativeKey(relativePath)), nil
}

func suggestRelated(idx *index.Index, filePath string) []RelatedFile {
	if _, ok := idx.File(filePath); !ok {
		return nil
	}

	best := make(map[string]RelatedFile)
	offer := func(file *index.IndexedFile, reason Reason, score int) {
		if file.RelativePath == filePath {
			return
		}
		if current, ok := best[file.RelativePath]; ok && current.Score >= score {
			return
		}
		best[file.RelativePath] = RelatedFile{File: file, Reason: reason, Score: score}
	}

	for _, specifier := range idx.Imports(filePath) {
		if resolved, ok := resolveImport(idx, filePath, specifier); ok {
			offer(resolved, ReasonImported, scoreImported)
		}
	}

	dir := path.Dir(filePath)
	stem := strings.ToLower(fileStem(filePath))
	for _, file := range idx.Files() {
		if path.Dir(file.RelativePath) == dir {
			offer(file, ReasonSameDirectory, scoreSameDirectory)
		}
		other := strings.ToLower(fileStem(file.RelativePath))
		if stem != "" && other != "" && (strings.Contains(other, stem) || strings.Contains(stem, other)) {
			offer(file, ReasonSimilarName, scoreSimilarName)
		}
	}

	related := make([]RelatedFile, 0, len(best))
	for _, r := range best {
		related = append(related, r)
	}
	slices.SortFunc(related, func(a, b RelatedFile) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.File.RelativePath, b.File.RelativePath)
	})
	if len(related) > maxRelatedFiles {
		related = related[:maxRelatedFiles]
	}
	return related
}

// resolveImport maps a relative specifier to an indexed file by probing each
// source extension, then the specifier as written. Package and absolute
// specifiers never resolve.
func resolveImport(idx *index.Index, fromFile, specifier string) (*index.IndexedFile, bool) {
	if !strings.HasPrefix(specifier, ".") {
		return nil, false
	}
	joined := path.Join(path.Dir(fromFile), specifier)
	for _, ext := range language.SourceExtensions {
		if file, ok := idx.File(joined + ext); ok {
			return file, true
		}
	}
	return idx.File(joined)
}

func fileStem(filePath string) string {
	base := path.Base(filePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// relativeKey turns a user-supplied path, relative or absolute under the
// root, into the index key form.
func (e *Engine) relativeKey(p string) string {
	p = strings.TrimSpace(p)
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(e.rootDir, p); err == nil {
			p = rel
		}
	}
	return path.Clean(strings.TrimPrefix(filepath.ToSlash(p), "./"))
}

package index

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDuplicateFile is returned when a relative path is added twice in one pass.
var ErrDuplicateFile = errors.New("file already indexed in this pass")

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	PassID string
	// MaxKeywordTerms bounds the number of distinct keyword terms. Once the
	// bound is reached new terms are dropped; existing terms keep collecting
	// files. <= 0 means unbounded.
	MaxKeywordTerms int
}

// Builder accumulates one index pass off to the side. It is not safe for
// concurrent use; the pass that owns it adds files sequentially.
type Builder struct {
	idx             *Index
	maxKeywordTerms int
	droppedTerms    int
}

// NewBuilder starts a new, empty pass.
func NewBuilder(options BuilderOptions) *Builder {
	return &Builder{
		idx:             newIndex(options.PassID),
		maxKeywordTerms: options.MaxKeywordTerms,
	}
}

// Add registers a file record, its symbol postings and its keywords.
func (b *Builder) Add(file *IndexedFile, keywords []string) error {
	idx := b.idx
	path := file.RelativePath
	if _, exists := idx.files[path]; exists {
		return fmt.Errorf("%s: %w", path, ErrDuplicateFile)
	}

	idx.files[path] = file
	idx.order = append(idx.order, path)
	idx.stats.TotalFiles++
	idx.stats.TotalLines += file.LineCount
	idx.stats.TotalBytes += file.SizeBytes

	if file.Source != nil {
		for _, name := range file.Source.Functions {
			idx.functions.add(name, path)
		}
		for _, name := range file.Source.Classes {
			idx.classes.add(name, path)
		}
		idx.stats.TotalFunctions += len(file.Source.Functions)
		idx.stats.TotalClasses += len(file.Source.Classes)
		idx.imports.set(path, file.Source.Imports)
		idx.exports.set(path, file.Source.Exports)
	}

	for _, keyword := range keywords {
		term := strings.ToLower(keyword)
		if term == "" {
			continue
		}
		if b.maxKeywordTerms > 0 && !idx.keywords.has(term) && idx.keywords.len() >= b.maxKeywordTerms {
			b.droppedTerms++
			continue
		}
		idx.keywords.addUnique(term, path)
	}
	return nil
}

// DroppedKeywordTerms reports how many keyword additions were refused by the
// term bound.
func (b *Builder) DroppedKeywordTerms() int {
	return b.droppedTerms
}

// SetFullText attaches the content store built during the same pass.
func (b *Builder) SetFullText(fullText *FullText) {
	b.idx.fullText = fullText
}

// Build seals the pass and returns the finished index. The builder must not be
// used afterwards.
func (b *Builder) Build(lastIndexed time.Time, duration time.Duration) *Index {
	idx := b.idx
	b.idx = nil
	idx.stats.LastIndexed = lastIndexed
	idx.stats.Duration = duration
	idx.finish()
	return idx
}

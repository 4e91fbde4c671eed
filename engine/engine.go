// Package engine runs index passes over a project tree and answers search and
// related-file queries against the most recently published index.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lexandro/codesearch-mcp/analyzer"
	"github.com/lexandro/codesearch-mcp/ignore"
	"github.com/lexandro/codesearch-mcp/index"
	"github.com/lexandro/codesearch-mcp/language"
	"github.com/lexandro/codesearch-mcp/scanner"
)

// DefaultExportKeywordLimit is the number of keyword terms kept in an export.
const DefaultExportKeywordLimit = 1000

var (
	// ErrNotIndexed is returned by operations that need a published index when
	// no pass has completed yet.
	ErrNotIndexed = errors.New("no index has been built yet")
	// ErrFullTextUnavailable is returned by Grep when the published index has no
	// content store (full text disabled, or the index came from a snapshot).
	ErrFullTextUnavailable = errors.New("full-text search is not available for the current index")
)

// Options configures an Engine.
type Options struct {
	RootDir string
	// Matcher defaults to the built-in include and exclude rules for RootDir.
	Matcher *ignore.Matcher
	// Analyzers defaults to analyzer.NewRegistry().
	Analyzers *analyzer.Registry
	// MaxKeywordTerms bounds distinct keyword terms per pass. <= 0 is unbounded.
	MaxKeywordTerms int
	// ExportKeywordLimit caps keyword terms in an export. 0 means
	// DefaultExportKeywordLimit, < 0 exports all terms.
	ExportKeywordLimit int
	// FullText builds a Bleve content store in each pass for Grep.
	FullText bool
	Logger   *slog.Logger
}

// Engine owns the published index of one project root. Passes and imports are
// serialized; queries read the published index without locking and never see a
// partially built one.
type Engine struct {
	rootDir            string
	matcher            *ignore.Matcher
	scanner            *scanner.Scanner
	analyzers          *analyzer.Registry
	maxKeywordTerms    int
	exportKeywordLimit int
	fullText           bool
	logger             *slog.Logger

	passMu   sync.Mutex // serializes passes and imports
	indexing atomic.Bool
	current  atomic.Pointer[index.Index]
}

// New creates an engine. Nothing is indexed until Initialize, IndexProject or
// the first query.
func New(options Options) *Engine {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	matcher := options.Matcher
	if matcher == nil {
		matcher = ignore.NewMatcher(ignore.MatcherOptions{RootDir: options.RootDir})
	}
	analyzers := options.Analyzers
	if analyzers == nil {
		analyzers = analyzer.NewRegistry()
	}
	exportLimit := options.ExportKeywordLimit
	if exportLimit == 0 {
		exportLimit = DefaultExportKeywordLimit
	}

	return &Engine{
		rootDir:            options.RootDir,
		matcher:            matcher,
		scanner:            scanner.New(matcher, logger),
		analyzers:          analyzers,
		maxKeywordTerms:    options.MaxKeywordTerms,
		exportKeywordLimit: exportLimit,
		fullText:           options.FullText,
		logger:             logger,
	}
}

// RootDir returns the project root.
func (e *Engine) RootDir() string {
	return e.rootDir
}

// Matcher returns the include/exclude rules used by every pass.
func (e *Engine) Matcher() *ignore.Matcher {
	return e.matcher
}

// ReloadRules re-reads the ignore files. It waits for a running pass so that
// no pass scans with a mix of old and new rules.
func (e *Engine) ReloadRules() {
	e.passMu.Lock()
	defer e.passMu.Unlock()
	e.matcher.Reload()
}

// Initialize runs the first index pass.
func (e *Engine) Initialize(ctx context.Context) (index.Stats, error) {
	return e.IndexProject(ctx)
}

// Reindex runs a full pass. There is no incremental mode.
func (e *Engine) Reindex(ctx context.Context) (index.Stats, error) {
	return e.IndexProject(ctx)
}

// IndexProject scans the root, analyzes every candidate and publishes the new
// index with a single pointer swap. A call made while another pass is running
// waits for it and then runs its own pass, whose result supersedes the earlier
// one. A cancelled pass publishes nothing.
func (e *Engine) IndexProject(ctx context.Context) (index.Stats, error) {
	e.passMu.Lock()
	defer e.passMu.Unlock()
	return e.runPass(ctx)
}

// IsIndexing reports whether a pass is in progress.
func (e *Engine) IsIndexing() bool {
	return e.indexing.Load()
}

// Current returns the published index, or nil before the first pass.
func (e *Engine) Current() *index.Index {
	return e.current.Load()
}

// Stats returns the statistics of the published index. The zero value is
// returned before the first pass.
func (e *Engine) Stats() index.Stats {
	if idx := e.current.Load(); idx != nil {
		return idx.Stats()
	}
	return index.Stats{}
}

// Close releases the content store of the published index.
func (e *Engine) Close() error {
	e.passMu.Lock()
	defer e.passMu.Unlock()
	if idx := e.current.Load(); idx != nil && idx.FullText() != nil {
		return idx.FullText().Close()
	}
	return nil
}

// ensureIndexed returns the published index, running the first pass if needed.
func (e *Engine) ensureIndexed(ctx context.Context) (*index.Index, error) {
	if idx := e.current.Load(); idx != nil {
		return idx, nil
	}

	e.passMu.Lock()
	defer e.passMu.Unlock()
	if idx := e.current.Load(); idx != nil {
		return idx, nil
	}
	if _, err := e.runPass(ctx); err != nil {
		return nil, err
	}
	return e.current.Load(), nil
}

// runPass builds and publishes one index. The caller holds passMu.
func (e *Engine) runPass(ctx context.Context) (index.Stats, error) {
	e.indexing.Store(true)
	defer e.indexing.Store(false)

	start := time.Now()
	passID := uuid.NewString()
	logger := e.logger.With("pass", passID)
	logger.Info("index pass started", "root", e.rootDir)

	candidates, err := e.scanner.Scan(e.rootDir)
	if err != nil {
		return index.Stats{}, err
	}

	builder := index.NewBuilder(index.BuilderOptions{
		PassID:          passID,
		MaxKeywordTerms: e.maxKeywordTerms,
	})
	var fullText *index.FullText
	if e.fullText {
		fullText, err = index.NewFullText()
		if err != nil {
			return index.Stats{}, err
		}
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			if fullText != nil {
				fullText.Close()
			}
			logger.Info("index pass cancelled", "error", err)
			return index.Stats{}, fmt.Errorf("index pass cancelled: %w", err)
		}
		e.indexFile(builder, fullText, candidate, logger)
	}

	if dropped := builder.DroppedKeywordTerms(); dropped > 0 {
		logger.Warn("keyword term limit reached", "limit", e.maxKeywordTerms, "dropped", dropped)
	}
	builder.SetFullText(fullText)
	idx := builder.Build(time.Now(), time.Since(start))
	e.publish(idx)

	stats := idx.Stats()
	logger.Info("index pass complete",
		"files", stats.TotalFiles,
		"functions", stats.TotalFunctions,
		"classes", stats.TotalClasses,
		"duration", stats.Duration,
	)
	return stats, nil
}

// publish swaps in idx and closes the content store of the index it replaces.
// A reader still holding the old index gets index.ErrClosed from its store and
// retries against the new one.
func (e *Engine) publish(idx *index.Index) {
	previous := e.current.Swap(idx)
	if previous != nil && previous.FullText() != nil {
		if err := previous.FullText().Close(); err != nil {
			e.logger.Warn("closing superseded content store", "pass", previous.PassID(), "error", err)
		}
	}
}

// indexFile reads, analyzes and adds one candidate. Every failure is logged and
// absorbed; an analysis failure still registers the base record.
func (e *Engine) indexFile(builder *index.Builder, fullText *index.FullText, candidate scanner.Candidate, logger *slog.Logger) {
	relPath := candidate.RelativePath
	content, err := readFileWithRetry(candidate.AbsolutePath)
	if err != nil {
		logger.Warn("skipping unreadable file", "path", relPath, "error", err)
		return
	}

	file := &index.IndexedFile{
		RelativePath: relPath,
		AbsolutePath: candidate.AbsolutePath,
		Extension:    filepath.Ext(relPath),
		Language:     language.DetectLanguage(relPath),
		Category:     language.DetectCategory(relPath),
		SizeBytes:    int64(len(content)),
		LineCount:    bytes.Count(content, []byte("\n")) + 1,
		ModTime:      candidate.Info.ModTime(),
	}

	var keywords []string
	if language.IsBinaryContent(content) {
		logger.Debug("binary content, analysis skipped", "path", relPath)
	} else {
		result, err := e.analyzers.Analyze(file.Category, relPath, content)
		if err != nil {
			logger.Warn("analysis failed", "path", relPath, "error", err)
		}
		result.Apply(file)
		keywords = result.Keywords

		if fullText != nil {
			if err := fullText.Add(relPath, string(content), file.Language); err != nil {
				logger.Warn("content indexing failed", "path", relPath, "error", err)
			}
		}
	}

	if err := builder.Add(file, keywords); err != nil {
		logger.Warn("file not added", "path", relPath, "error", err)
	}
}

// readFileWithRetry reads a file, retrying once after a short delay when an
// editor briefly holds a lock on it.
func readFileWithRetry(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		time.Sleep(50 * time.Millisecond)
		return os.ReadFile(path)
	}
	return data, nil
}

// Package scanner walks a project tree and lists the files eligible for indexing.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexandro/codesearch-mcp/ignore"
)

// Candidate is a file selected for indexing.
type Candidate struct {
	AbsolutePath string
	RelativePath string // forward slashes
	Info         fs.FileInfo
}

// Scanner lists indexing candidates under a root directory.
type Scanner struct {
	matcher *ignore.Matcher
	logger  *slog.Logger
}

// New creates a scanner using the matcher's include and exclude rules.
func New(matcher *ignore.Matcher, logger *slog.Logger) *Scanner {
	return &Scanner{matcher: matcher, logger: logger}
}

// Scan walks root depth-first and returns every candidate file. Sibling order is
// whatever the filesystem reports and must not be relied upon.
// Unreadable entries are logged and skipped. Only a missing or unreadable root
// is an error.
func (s *Scanner) Scan(root string) ([]Candidate, error) {
	rootInfo, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("accessing root %s: %w", root, err)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var candidates []Candidate
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if s.matcher.Excluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks and other special files are not followed.
		if !d.Type().IsRegular() {
			return nil
		}
		if !s.matcher.Included(relPath) || s.matcher.Excluded(relPath, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping file without metadata", "path", relPath, "error", err)
			return nil
		}
		if s.matcher.IsFileTooLarge(info.Size()) {
			s.logger.Debug("skipping large file", "path", relPath, "size", info.Size())
			return nil
		}

		candidates = append(candidates, Candidate{
			AbsolutePath: path,
			RelativePath: relPath,
			Info:         info,
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, walkErr)
	}

	return candidates, nil
}

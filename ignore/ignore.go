package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides which paths under a project root are indexing candidates.
// A path is a candidate when its extension is in the include set and its
// root-relative path contains none of the exclude substrings. Glob excludes and
// .gitignore rules are optional extra filters.
// Thread-safe: Reload() acquires a write lock, the query methods a read lock.
type Matcher struct {
	mu                sync.RWMutex
	rootDir           string
	includeExtensions map[string]struct{}
	excludePatterns   []string
	excludeGlobs      []string
	respectGitignore  bool
	gitIgnore         gitignore.GitIgnore
	maxFileSizeBytes  int64
	excludedFiles     map[string]struct{} // root-relative, e.g. exported snapshots
}

// MatcherOptions configures the matcher. Nil slices fall back to the defaults;
// an empty, non-nil slice disables that filter.
type MatcherOptions struct {
	RootDir           string
	IncludeExtensions []string
	ExcludePatterns   []string
	ExcludeGlobs      []string
	RespectGitignore  bool
	MaxFileSizeBytes  int64 // <= 0 means unlimited
}

// NewMatcher creates a matcher for the given root.
func NewMatcher(options MatcherOptions) *Matcher {
	includes := options.IncludeExtensions
	if includes == nil {
		includes = DefaultIncludeExtensions
	}
	excludes := options.ExcludePatterns
	if excludes == nil {
		excludes = DefaultExcludePatterns
	}

	matcher := &Matcher{
		rootDir:           options.RootDir,
		includeExtensions: make(map[string]struct{}, len(includes)),
		excludePatterns:   excludes,
		respectGitignore:  options.RespectGitignore,
		maxFileSizeBytes:  options.MaxFileSizeBytes,
		excludedFiles:     make(map[string]struct{}),
	}
	for _, ext := range includes {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		matcher.includeExtensions[ext] = struct{}{}
	}
	for _, glob := range options.ExcludeGlobs {
		matcher.excludeGlobs = append(matcher.excludeGlobs, filepath.ToSlash(glob))
	}

	if matcher.respectGitignore {
		matcher.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)
	}

	return matcher
}

// RootDir returns the project root the matcher resolves paths against.
func (m *Matcher) RootDir() string {
	return m.rootDir
}

// Included reports whether the file's extension is in the include set.
func (m *Matcher) Included(relativePath string) bool {
	_, ok := m.includeExtensions[filepath.Ext(relativePath)]
	return ok
}

// Excluded reports whether a root-relative path (forward slashes) is excluded.
// Exclusion of a directory implies exclusion of everything below it.
func (m *Matcher) Excluded(relativePath string, isDir bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !isDir {
		if _, ok := m.excludedFiles[relativePath]; ok {
			return true
		}
	}

	for _, pattern := range m.excludePatterns {
		if pattern != "" && strings.Contains(relativePath, pattern) {
			return true
		}
	}

	for _, glob := range m.excludeGlobs {
		if matched, err := doublestar.Match(glob, relativePath); err == nil && matched {
			return true
		}
	}

	if m.gitIgnore != nil {
		match := m.gitIgnore.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}

	return false
}

// ShouldIgnoreDir returns true if a directory should be skipped entirely during traversal.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	relativePath, ok := m.relative(absolutePath)
	if !ok {
		return true
	}
	return m.Excluded(relativePath, true)
}

// ShouldIgnore returns true if a file is not an indexing candidate.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	relativePath, ok := m.relative(absolutePath)
	if !ok {
		return true
	}
	return !m.Included(relativePath) || m.Excluded(relativePath, false)
}

// IsFileTooLarge returns true if the file exceeds the configured size limit.
func (m *Matcher) IsFileTooLarge(fileSize int64) bool {
	return m.maxFileSizeBytes > 0 && fileSize > m.maxFileSizeBytes
}

// IsIgnoreFile reports whether the path is an ignore file whose change requires Reload.
func (m *Matcher) IsIgnoreFile(absolutePath string) bool {
	return m.respectGitignore && filepath.Base(absolutePath) == ".gitignore"
}

// Reload re-reads .gitignore from disk when gitignore support is enabled.
func (m *Matcher) Reload() {
	if !m.respectGitignore {
		return
	}
	newGitIgnore := loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = newGitIgnore
}

// ExcludeFile excludes one file by absolute path, for files the program writes
// into the tree itself. Paths outside the root are ignored. The exclusion
// survives Reload.
func (m *Matcher) ExcludeFile(absolutePath string) {
	relativePath, ok := m.relative(absolutePath)
	if !ok || relativePath == "." {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.excludedFiles[relativePath] = struct{}{}
}

// ValidateGlobs reports the first malformed doublestar pattern.
func ValidateGlobs(globs []string) error {
	for _, glob := range globs {
		if !doublestar.ValidatePattern(filepath.ToSlash(glob)) {
			return fmt.Errorf("invalid exclude glob: %s", glob)
		}
	}
	return nil
}

// relative converts an absolute path to a forward-slash path relative to the root.
// Paths outside the root are reported as not ok.
func (m *Matcher) relative(absolutePath string) (string, bool) {
	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		return "", false
	}
	relativePath = filepath.ToSlash(relativePath)
	if relativePath == ".." || strings.HasPrefix(relativePath, "../") {
		return "", false
	}
	return relativePath, true
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}

package index

import (
	"time"

	"github.com/lexandro/codesearch-mcp/language"
)

// IndexedFile is the record for one indexed file: a common base plus exactly one
// category payload, selected by Category. A file whose analysis failed keeps its
// base record with a nil payload.
type IndexedFile struct {
	RelativePath string            `json:"path" yaml:"path"` // unique key, forward slashes
	AbsolutePath string            `json:"absolutePath" yaml:"absolutePath"`
	Extension    string            `json:"extension" yaml:"extension"`
	Language     string            `json:"language" yaml:"language"`
	Category     language.Category `json:"category" yaml:"category"`
	SizeBytes    int64             `json:"size" yaml:"size"`
	LineCount    int               `json:"lines" yaml:"lines"`
	ModTime      time.Time         `json:"lastModified" yaml:"lastModified"`

	Source   *SourceInfo   `json:"source,omitempty" yaml:"source,omitempty"`
	JSON     *JSONInfo     `json:"json,omitempty" yaml:"json,omitempty"`
	Markdown *MarkdownInfo `json:"markdown,omitempty" yaml:"markdown,omitempty"`
}

// SourceInfo holds symbols extracted from a JavaScript/TypeScript file.
type SourceInfo struct {
	Functions []string `json:"functions" yaml:"functions"`
	Classes   []string `json:"classes" yaml:"classes"`
	Imports   []string `json:"imports" yaml:"imports"` // raw, unresolved specifiers
	Exports   []string `json:"exports" yaml:"exports"` // best-effort
}

// JSONInfo holds the top-level keys of a JSON file. The package fields are only
// set for files named package.json.
type JSONInfo struct {
	Keys            []string `json:"jsonKeys" yaml:"jsonKeys"`
	PackageName     string   `json:"packageName,omitempty" yaml:"packageName,omitempty"`
	Dependencies    []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies []string `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
}

// MarkdownInfo holds the ATX header texts of a Markdown file.
type MarkdownInfo struct {
	Headers []string `json:"headers" yaml:"headers"`
}

// Stats aggregates one index pass.
type Stats struct {
	TotalFiles     int           `json:"totalFiles" yaml:"totalFiles"`
	TotalLines     int           `json:"totalLines" yaml:"totalLines"`
	TotalFunctions int           `json:"totalFunctions" yaml:"totalFunctions"`
	TotalClasses   int           `json:"totalClasses" yaml:"totalClasses"`
	TotalBytes     int64         `json:"totalBytes" yaml:"totalBytes"`
	LastIndexed    time.Time     `json:"lastIndexed" yaml:"lastIndexed"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

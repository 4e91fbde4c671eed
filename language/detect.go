package language

import (
	"path/filepath"
	"strings"
)

// Category selects which analyzer handles a file.
type Category string

const (
	CategorySource   Category = "source"
	CategoryJSON     Category = "json"
	CategoryMarkdown Category = "markdown"
	CategoryOther    Category = "other"
)

// SourceExtensions are the extensions handled by the source analyzer, in the
// order used when probing an extensionless import specifier.
var SourceExtensions = []string{".js", ".cjs", ".mjs", ".jsx", ".ts", ".tsx"}

type extensionInfo struct {
	language string
	category Category
}

// extensions maps a lowercase extension (with dot) to its language and category.
var extensions = map[string]extensionInfo{
	".js":   {"JavaScript", CategorySource},
	".cjs":  {"JavaScript", CategorySource},
	".mjs":  {"JavaScript", CategorySource},
	".jsx":  {"JavaScript", CategorySource},
	".ts":   {"TypeScript", CategorySource},
	".tsx":  {"TypeScript", CategorySource},
	".json": {"JSON", CategoryJSON},
	".md":   {"Markdown", CategoryMarkdown},
}

// DetectCategory returns the analysis category for a file path based on its extension.
// Extensions without a dedicated analyzer are CategoryOther.
func DetectCategory(filePath string) Category {
	if info, ok := extensions[strings.ToLower(filepath.Ext(filePath))]; ok {
		return info.category
	}
	return CategoryOther
}

// DetectLanguage returns a display name for the file's language, or "Unknown".
func DetectLanguage(filePath string) string {
	if info, ok := extensions[strings.ToLower(filepath.Ext(filePath))]; ok {
		return info.language
	}
	return "Unknown"
}

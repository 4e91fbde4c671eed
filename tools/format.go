package tools

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/lexandro/codesearch-mcp/index"
)

// FormatSearchResults formats ranked search results as human-readable text,
// one line per file with its score and the signal that matched.
func FormatSearchResults(query string, results []engine.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results for %q.", query)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d results for %q:\n\n", len(results), query))

	for _, result := range results {
		builder.WriteString(fmt.Sprintf("  %3d  %s  [%s", result.Score, result.File.RelativePath, result.MatchType))
		if result.Symbol != "" {
			builder.WriteString(": ")
			builder.WriteString(result.Symbol)
		}
		builder.WriteString("]\n")
	}

	return builder.String()
}

// FormatRelatedFiles formats related-file suggestions for filePath.
func FormatRelatedFiles(filePath string, related []engine.RelatedFile) string {
	if len(related) == 0 {
		return fmt.Sprintf("No related files for %s.", filePath)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Related to %s (%d files):\n\n", filePath, len(related)))

	for _, rel := range related {
		builder.WriteString(fmt.Sprintf("  %3d  %s  (%s)\n", rel.Score, rel.File.RelativePath, rel.Reason))
	}

	return builder.String()
}

// FormatGrepResults formats content search results as human-readable text.
// Groups matches by file with line numbers and optional context.
func FormatGrepResults(results []index.GrepResult, totalMatches int) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matches in %d files:\n\n", totalMatches, len(results)))

	for i, result := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── %s ──\n", result.RelativePath))

		for _, match := range result.Matches {
			for _, ctxLine := range match.ContextBefore {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
			builder.WriteString(fmt.Sprintf("  %d: %s\n", match.LineNumber, match.LineText))
			for _, ctxLine := range match.ContextAfter {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
		}
	}

	return builder.String()
}

// FormatFileResults formats file glob results as human-readable text.
func FormatFileResults(files []*index.IndexedFile, nameOnly bool) string {
	if len(files) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(files)))

	for _, file := range files {
		if nameOnly {
			builder.WriteString(file.RelativePath)
			builder.WriteString("\n")
			continue
		}
		builder.WriteString(fmt.Sprintf("  %s  (%s, %s, %d lines)\n",
			file.RelativePath,
			file.Language,
			formatFileSize(file.SizeBytes),
			file.LineCount,
		))
	}

	return builder.String()
}

// FormatFileContent formats a file's content with line numbers.
// Output format: header line with path and line count, followed by numbered lines.
func FormatFileContent(filePath string, content string) string {
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines) ──\n", filePath, lineCount))

	width := len(fmt.Sprintf("%d", lineCount))
	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}

	return builder.String()
}

// FormatStats formats pass statistics as a single summary line.
func FormatStats(stats index.Stats) string {
	return fmt.Sprintf("%d files, %d lines, %d functions, %d classes (%s) in %s",
		stats.TotalFiles,
		stats.TotalLines,
		stats.TotalFunctions,
		stats.TotalClasses,
		formatFileSize(stats.TotalBytes),
		stats.Duration.Round(time.Millisecond),
	)
}

// formatLanguageCounts writes language counts sorted by count descending,
// then by name.
func formatLanguageCounts(builder *strings.Builder, counts map[string]int) {
	type langEntry struct {
		lang  string
		count int
	}
	entries := make([]langEntry, 0, len(counts))
	for lang, count := range counts {
		entries = append(entries, langEntry{lang, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].lang < entries[j].lang
	})

	for _, entry := range entries {
		builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.lang, entry.count))
	}
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}

package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the codesearch_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Engine    *engine.Engine
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a codesearch_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	idx := h.Engine.Current()
	stats := h.Engine.Stats()
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("codesearch_status",
		"files", stats.TotalFiles,
		"indexing", h.Engine.IsIndexing(),
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	builder.WriteString("=== codesearch-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.Engine.RootDir()))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	if h.Engine.IsIndexing() {
		builder.WriteString("Indexing: in progress\n")
	}

	if idx == nil {
		builder.WriteString("Index: not built yet\n")
		return textResult(builder.String()), nil, nil
	}

	builder.WriteString(fmt.Sprintf("Indexed files: %d\n", stats.TotalFiles))
	builder.WriteString(fmt.Sprintf("Lines: %d\n", stats.TotalLines))
	builder.WriteString(fmt.Sprintf("Functions: %d\n", stats.TotalFunctions))
	builder.WriteString(fmt.Sprintf("Classes: %d\n", stats.TotalClasses))
	builder.WriteString(fmt.Sprintf("Keyword terms: %d\n", idx.KeywordCount()))
	builder.WriteString(fmt.Sprintf("Total indexed size: %s\n", formatFileSize(stats.TotalBytes)))
	if idx.FullText() != nil {
		builder.WriteString(fmt.Sprintf("Content-indexed documents: %d\n", idx.FullText().DocumentCount()))
	} else {
		builder.WriteString("Content index: unavailable\n")
	}
	if !stats.LastIndexed.IsZero() {
		builder.WriteString(fmt.Sprintf("Last indexed: %s (took %s)\n",
			stats.LastIndexed.Format(time.RFC3339),
			stats.Duration.Round(time.Millisecond),
		))
	}
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	if langCounts := idx.LanguageCounts(); len(langCounts) > 0 {
		builder.WriteString("\nLanguages:\n")
		formatLanguageCounts(&builder, langCounts)
	}

	return textResult(builder.String()), nil, nil
}

package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReindexArgs defines the input parameters for the codesearch_reindex tool.
type ReindexArgs struct{}

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a codesearch_reindex request. Ignore files are re-read
// before the pass so edited .gitignore rules take effect.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("codesearch_reindex started")

	h.Engine.ReloadRules()
	stats, err := h.Engine.Reindex(ctx)
	if err != nil {
		h.Logger.Error("codesearch_reindex failed", "error", err)
		return errorResult(fmt.Sprintf("Reindex error: %v", err)), nil, nil
	}

	h.Logger.Info("codesearch_reindex complete",
		"files", stats.TotalFiles,
		"totalSize", stats.TotalBytes,
		"elapsed", stats.Duration,
	)

	return textResult("Reindex complete: " + FormatStats(stats)), nil, nil
}

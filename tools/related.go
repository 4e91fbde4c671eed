package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RelatedArgs defines the input parameters for the codesearch_related tool.
type RelatedArgs struct {
	FilePath string `json:"filePath" jsonschema:"File to find related files for, relative to the project root (e.g. src/auth.js)"`
}

// RelatedHandler holds the dependencies for the related tool.
type RelatedHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a codesearch_related request.
func (h *RelatedHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RelatedArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("codesearch_related called with empty filePath")
		return errorResult("Error: filePath parameter is required"), nil, nil
	}

	related, err := h.Engine.SuggestRelated(ctx, args.FilePath)
	if err != nil {
		h.Logger.Error("codesearch_related failed", "filePath", args.FilePath, "error", err)
		return errorResult(fmt.Sprintf("Related files error: %v", err)), nil, nil
	}

	h.Logger.Info("codesearch_related",
		"filePath", args.FilePath,
		"results", len(related),
		"elapsed", time.Since(start),
	)

	return textResult(FormatRelatedFiles(args.FilePath, related)), nil, nil
}

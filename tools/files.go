package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FilesArgs defines the input parameters for the codesearch_files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern to match files (e.g. **/*.ts or src/**/*.json)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only file paths without metadata"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FilesHandler holds the dependencies for the files tool.
type FilesHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a codesearch_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("codesearch_files called with empty pattern")
		return errorResult("Error: pattern parameter is required"), nil, nil
	}

	files, err := h.Engine.Files(ctx, args.Pattern, args.MaxResults)
	if err != nil {
		h.Logger.Error("codesearch_files failed", "pattern", args.Pattern, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	h.Logger.Info("codesearch_files",
		"pattern", args.Pattern,
		"results", len(files),
		"elapsed", time.Since(start),
	)

	return textResult(FormatFileResults(files, args.NameOnly)), nil, nil
}

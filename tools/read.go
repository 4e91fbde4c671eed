package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadArgs defines the input parameters for the codesearch_read tool.
type ReadArgs struct {
	FilePath string `json:"filePath" jsonschema:"Relative file path to read from the index (e.g. src/main.ts)"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a codesearch_read request.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("codesearch_read called with empty filePath")
		return errorResult("Error: filePath parameter is required"), nil, nil
	}

	content, ok := h.Engine.ReadContent(args.FilePath)
	if !ok {
		h.Logger.Info("codesearch_read file not found", "filePath", args.FilePath)
		return errorResult(fmt.Sprintf("File not found in index: %s", args.FilePath)), nil, nil
	}

	h.Logger.Info("codesearch_read", "filePath", args.FilePath, "elapsed", time.Since(start))

	return textResult(FormatFileContent(args.FilePath, content)), nil, nil
}

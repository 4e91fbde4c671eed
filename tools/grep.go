package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/lexandro/codesearch-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultContextLines = 2

// GrepArgs defines the input parameters for the codesearch_grep tool.
type GrepArgs struct {
	Query        string `json:"query" jsonschema:"Content query. Plain text for word match, quoted for exact phrase, /regex/ for regular expression"`
	FileGlob     string `json:"fileGlob,omitempty" jsonschema:"Optional glob pattern to filter files (e.g. **/*.ts)"`
	MaxResults   int    `json:"maxResults,omitempty" jsonschema:"Maximum number of file results to return (default 50)"`
	ContextLines int    `json:"contextLines,omitempty" jsonschema:"Number of context lines before and after each match (default 2)"`
}

// GrepHandler holds the dependencies for the grep tool.
type GrepHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a codesearch_grep request.
func (h *GrepHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args GrepArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("codesearch_grep called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	contextLines := args.ContextLines
	if contextLines == 0 {
		contextLines = defaultContextLines
	}

	results, totalMatches, err := h.Engine.Grep(ctx, index.GrepOptions{
		Query:        args.Query,
		FileGlob:     args.FileGlob,
		MaxResults:   args.MaxResults,
		ContextLines: contextLines,
	})
	if errors.Is(err, engine.ErrFullTextUnavailable) {
		h.Logger.Warn("codesearch_grep without content store")
		return errorResult("Content search is not available: full text is disabled or the index was imported from a snapshot. Run codesearch_reindex to rebuild it."), nil, nil
	}
	if err != nil {
		h.Logger.Error("codesearch_grep failed", "query", args.Query, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	h.Logger.Info("codesearch_grep",
		"query", args.Query,
		"fileGlob", args.FileGlob,
		"files", len(results),
		"matches", totalMatches,
		"elapsed", time.Since(start),
	)

	return textResult(FormatGrepResults(results, totalMatches)), nil, nil
}

// Package tools implements the MCP tool handlers served by codesearch-mcp.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the codesearch_search tool.
type SearchArgs struct {
	Query     string `json:"query" jsonschema:"Search text matched against function and class names, keywords, file names and paths"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results to return (default 10)"`
	Type      string `json:"type,omitempty" jsonschema:"Restrict the search: all, function, class or file (default all)"`
	Extension string `json:"extension,omitempty" jsonschema:"Only return files with this extension (e.g. .ts)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Engine *engine.Engine
	// DefaultLimit applies when the request has no limit.
	DefaultLimit int
	Logger       *slog.Logger
}

// Handle processes a codesearch_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("codesearch_search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	limit := args.Limit
	if limit <= 0 {
		limit = h.DefaultLimit
	}

	results, err := h.Engine.Search(ctx, args.Query, engine.SearchOptions{
		Limit:     limit,
		Type:      engine.SearchType(args.Type),
		Extension: args.Extension,
	})
	if errors.Is(err, engine.ErrInvalidSearchType) {
		h.Logger.Warn("codesearch_search invalid type", "type", args.Type)
		return errorResult(fmt.Sprintf("Error: type must be one of all, function, class, file (got %q)", args.Type)), nil, nil
	}
	if err != nil {
		h.Logger.Error("codesearch_search failed", "query", args.Query, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	h.Logger.Info("codesearch_search",
		"query", args.Query,
		"type", args.Type,
		"extension", args.Extension,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	return textResult(FormatSearchResults(args.Query, results)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

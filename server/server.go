// Package server wires the tool handlers into an MCP server.
package server

import (
	"github.com/lexandro/codesearch-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name and Version identify the server to MCP clients.
const (
	Name    = "codesearch-mcp"
	Version = "0.1.0"
)

// Handlers groups the tool handlers registered by Setup.
type Handlers struct {
	Search   *tools.SearchHandler
	Related  *tools.RelatedHandler
	Files    *tools.FilesHandler
	Grep     *tools.GrepHandler
	Read     *tools.ReadHandler
	Status   *tools.StatusHandler
	Reindex  *tools.ReindexHandler
	Snapshot *tools.SnapshotHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    Name,
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server keeps a semantic index of a JavaScript/TypeScript project: functions, classes, imports, keywords, JSON keys and Markdown headers.

Use these tools to orient yourself in the codebase:
- codesearch_search ranks files for a name or concept (functions and classes first, then keywords, file names and paths)
- codesearch_related suggests files to read next to a given file (its imports, its directory, similar names)
- codesearch_files finds files by glob pattern
- codesearch_grep searches file contents (word, "phrase" or /regex/)
- codesearch_read returns a file's contents from the index
- The index is rebuilt in full when files change; codesearch_reindex forces a pass`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "codesearch_search",
		Description: `Rank indexed files against a query.

Scoring (highest signal per file wins):
  - function or class name equal to the query: 100, containing it: 80
  - keywords: 10 per query word found in the file
  - file name: 90 equal, 70 prefix, 50 contains; 30 when only the path contains it
  - path: 60 when the last segment contains the query, otherwise 40

Filtering:
  - type: all (default), function, class or file
  - extension: only files with this extension (e.g. ".ts" or "ts")`,
	}, handlers.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "codesearch_related",
		Description: `Suggest up to 10 files related to a file: files it imports through relative specifiers (score 90), files in the same directory (50) and files with a similar name (40).`,
	}, handlers.Related.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "codesearch_files",
		Description: `Find indexed files by glob pattern.

Pattern examples:
  - "**/*.ts" - all TypeScript files
  - "src/**/*.js" - JavaScript files under src/
  - "**/package.json" - every package manifest`,
	}, handlers.Files.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "codesearch_grep",
		Description: `Search file contents using the full-text index.

Query formats:
  - Plain text: word-level matching (e.g., "handleRequest")
  - "quoted text": exact phrase matching
  - /regex/: regular expression matching (e.g., "/export\s+default/")

Not available after a snapshot import until the next reindex.`,
	}, handlers.Grep.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "codesearch_read",
		Description: `Read a file's contents from the index. Returns numbered lines (format: "N│ content").`,
	}, handlers.Read.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "codesearch_status",
		Description: "Show index status: file, line, function and class counts, language breakdown, last pass time and memory usage.",
	}, handlers.Status.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "codesearch_reindex",
		Description: "Force a full index pass. The previous index keeps serving queries until the new one is published.",
	}, handlers.Reindex.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "codesearch_snapshot",
		Description: `Export the current index to a JSON or YAML file, or import one to replace the index (action: export|import).`,
	}, handlers.Snapshot.Handle)

	return mcpServer
}

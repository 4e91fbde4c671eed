package tools

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/lexandro/codesearch-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SnapshotArgs defines the input parameters for the codesearch_snapshot tool.
type SnapshotArgs struct {
	Action string `json:"action" jsonschema:"export writes the current index to a file, import replaces the index with a file's contents"`
	Path   string `json:"path,omitempty" jsonschema:"Snapshot file (.json, .yaml or .yml). Relative paths resolve against the project root"`
}

// SnapshotHandler holds the dependencies for the snapshot tool.
type SnapshotHandler struct {
	Engine *engine.Engine
	// DefaultPath is used when the request has no path.
	DefaultPath string
	Logger      *slog.Logger
}

// Handle processes a codesearch_snapshot request.
func (h *SnapshotHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SnapshotArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	path := args.Path
	if path == "" {
		path = h.DefaultPath
	}
	if path == "" {
		h.Logger.Warn("codesearch_snapshot called without path")
		return errorResult("Error: path parameter is required"), nil, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.Engine.RootDir(), path)
	}

	var (
		stats index.Stats
		err   error
	)
	switch args.Action {
	case "export":
		stats, err = h.Engine.ExportFile(path)
	case "import":
		stats, err = h.Engine.ImportFile(path)
	default:
		h.Logger.Warn("codesearch_snapshot invalid action", "action", args.Action)
		return errorResult(fmt.Sprintf("Error: action must be export or import (got %q)", args.Action)), nil, nil
	}
	if err != nil {
		h.Logger.Error("codesearch_snapshot failed", "action", args.Action, "path", path, "error", err)
		return errorResult(fmt.Sprintf("Snapshot %s error: %v", args.Action, err)), nil, nil
	}

	h.Logger.Info("codesearch_snapshot",
		"action", args.Action,
		"path", path,
		"files", stats.TotalFiles,
		"elapsed", time.Since(start),
	)

	verb := "Exported"
	if args.Action == "import" {
		verb = "Imported"
	}
	return textResult(fmt.Sprintf("%s %d files (%d functions, %d classes) %s %s",
		verb, stats.TotalFiles, stats.TotalFunctions, stats.TotalClasses, direction(args.Action), path)), nil, nil
}

func direction(action string) string {
	if action == "import" {
		return "from"
	}
	return "to"
}

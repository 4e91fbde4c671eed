package main

import (
	"context"
	"log/slog"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/lexandro/codesearch-mcp/index"
	"github.com/lexandro/codesearch-mcp/watcher"
)

// runIndexPass runs one full pass. reason names the trigger in the log; the
// engine logs the pass itself.
func runIndexPass(ctx context.Context, eng *engine.Engine, reason string, logger *slog.Logger) (index.Stats, error) {
	logger.Info("reindex requested", "reason", reason)
	stats, err := eng.Reindex(ctx)
	if err != nil {
		logger.Error("index pass failed", "reason", reason, "error", err)
	}
	return stats, err
}

// handleWatcherChanges turns each debounced batch of file changes into one full
// reindex. Ignore rules are reloaded first when the batch touches an ignore
// file. Returns when ctx is done.
func handleWatcherChanges(ctx context.Context, changes <-chan []watcher.Change, eng *engine.Engine, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-changes:
			if len(batch) == 0 {
				continue
			}
			for _, change := range batch {
				if change.Op == watcher.OpIgnoreRules {
					eng.ReloadRules()
					logger.Info("reloaded ignore rules", "trigger", change.Path)
					break
				}
			}
			logger.Debug("file changes detected", "changes", len(batch), "first", batch[0].Path)
			runIndexPass(ctx, eng, "watcher", logger)
		}
	}
}

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/lexandro/codesearch-mcp/index"
	"github.com/lexandro/codesearch-mcp/scanner"
)

// SyncResult holds the outcome of a single drift check.
type SyncResult struct {
	MissingFiles  int // files on disk but not in index
	StaleFiles    int // files in index but not on disk
	ModifiedFiles int // files where ModTime or size differs
	Duration      time.Duration
}

// Drifted reports whether the index no longer matches the disk.
func (r SyncResult) Drifted() bool {
	return r.MissingFiles+r.StaleFiles+r.ModifiedFiles > 0
}

// runPeriodicSync checks the published index against the disk at every tick
// and runs a full pass when they differ. It returns when ctx is done.
func runPeriodicSync(ctx context.Context, interval time.Duration, eng *engine.Engine, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sync started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			if eng.IsIndexing() {
				continue
			}
			result, err := performSyncVerification(eng, logger)
			if err != nil {
				logger.Warn("sync verification failed", "error", err)
				continue
			}
			if !result.Drifted() {
				logger.Debug("sync verification complete, index is in sync", "duration", result.Duration)
				continue
			}
			logger.Info("sync verification found drift",
				"missing", result.MissingFiles,
				"stale", result.StaleFiles,
				"modified", result.ModifiedFiles,
				"duration", result.Duration,
			)
			runIndexPass(ctx, eng, "sync", logger)
		}
	}
}

// performSyncVerification compares the candidate files on disk with the
// published index. It only reports; the caller decides whether to reindex.
func performSyncVerification(eng *engine.Engine, logger *slog.Logger) (SyncResult, error) {
	start := time.Now()
	var result SyncResult

	candidates, err := scanner.New(eng.Matcher(), logger).Scan(eng.RootDir())
	if err != nil {
		return result, err
	}

	var indexed []*index.IndexedFile
	if idx := eng.Current(); idx != nil {
		indexed = idx.Files()
	}
	indexedSet := make(map[string]*index.IndexedFile, len(indexed))
	for _, file := range indexed {
		indexedSet[file.RelativePath] = file
	}

	onDisk := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		onDisk[candidate.RelativePath] = struct{}{}
		file, exists := indexedSet[candidate.RelativePath]
		switch {
		case !exists:
			logger.Debug("sync: file missing from index", "path", candidate.RelativePath)
			result.MissingFiles++
		case !candidate.Info.ModTime().Equal(file.ModTime) || candidate.Info.Size() != file.SizeBytes:
			logger.Debug("sync: file modified", "path", candidate.RelativePath)
			result.ModifiedFiles++
		}
	}

	for relPath := range indexedSet {
		if _, exists := onDisk[relPath]; !exists {
			logger.Debug("sync: stale file in index", "path", relPath)
			result.StaleFiles++
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

package engine

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lexandro/codesearch-mcp/index"
)

// Export returns the published index as a snapshot, with keyword postings cut
// to the configured limit in insertion order.
func (e *Engine) Export() (*index.Snapshot, error) {
	idx := e.current.Load()
	if idx == nil {
		return nil, ErrNotIndexed
	}
	return idx.Export(e.exportKeywordLimit), nil
}

// Import restores a snapshot and publishes it in place of the current index.
// The restored index has no content store, so Grep is unavailable until the
// next pass.
func (e *Engine) Import(snapshot *index.Snapshot) error {
	e.passMu.Lock()
	defer e.passMu.Unlock()

	idx, err := index.FromSnapshot(snapshot, uuid.NewString())
	if err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}
	e.publish(idx)
	e.logger.Info("snapshot imported", "pass", idx.PassID(), "files", idx.FileCount())
	return nil
}

// ExportFile writes the current snapshot to path (.json, .yaml or .yml). A
// snapshot written under the root is excluded from later passes.
func (e *Engine) ExportFile(path string) (index.Stats, error) {
	snapshot, err := e.Export()
	if err != nil {
		return index.Stats{}, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		e.matcher.ExcludeFile(abs)
	}
	if err := index.WriteSnapshotFile(path, snapshot); err != nil {
		return index.Stats{}, err
	}
	return snapshot.Stats, nil
}

// ImportFile reads a snapshot file and publishes it.
func (e *Engine) ImportFile(path string) (index.Stats, error) {
	snapshot, err := index.ReadSnapshotFile(path)
	if err != nil {
		return index.Stats{}, err
	}
	if err := e.Import(snapshot); err != nil {
		return index.Stats{}, err
	}
	return e.Stats(), nil
}

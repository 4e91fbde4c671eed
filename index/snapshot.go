package index

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Snapshot is the plain-data form of an Index: every map as a list of
// [key, value] pairs plus the pass statistics.
type Snapshot struct {
	Files     []FileEntry    `json:"files" yaml:"files"`
	Functions []PostingEntry `json:"functions" yaml:"functions"`
	Classes   []PostingEntry `json:"classes" yaml:"classes"`
	Imports   []PostingEntry `json:"imports" yaml:"imports"`
	Exports   []PostingEntry `json:"exports" yaml:"exports"`
	Keywords  []PostingEntry `json:"keywords" yaml:"keywords"`
	Stats     Stats          `json:"stats" yaml:"stats"`
}

// FileEntry is a [relativePath, file] pair.
type FileEntry struct {
	Key   string
	Value *IndexedFile
}

// PostingEntry is a [term, files] or [file, names] pair.
type PostingEntry struct {
	Key   string
	Value []string
}

// Export converts the index to a snapshot. Keyword postings are cut to the
// first keywordLimit terms in insertion order (not the most frequent ones);
// keywordLimit <= 0 exports all of them.
func (idx *Index) Export(keywordLimit int) *Snapshot {
	snapshot := &Snapshot{
		Files:     make([]FileEntry, 0, len(idx.order)),
		Functions: exportPostings(idx.functions, 0),
		Classes:   exportPostings(idx.classes, 0),
		Imports:   exportPostings(idx.imports, 0),
		Exports:   exportPostings(idx.exports, 0),
		Keywords:  exportPostings(idx.keywords, keywordLimit),
		Stats:     idx.stats,
	}
	for _, path := range idx.order {
		snapshot.Files = append(snapshot.Files, FileEntry{Key: path, Value: idx.files[path]})
	}
	return snapshot
}

func exportPostings(p *postings, limit int) []PostingEntry {
	entries := make([]PostingEntry, 0, p.len())
	p.each(func(term string, paths []string) bool {
		if limit > 0 && len(entries) >= limit {
			return false
		}
		entries = append(entries, PostingEntry{Key: term, Value: paths})
		return true
	})
	return entries
}

// FromSnapshot restores an index verbatim from a snapshot. The restored index
// has no full-text store.
func FromSnapshot(snapshot *Snapshot, passID string) (*Index, error) {
	if snapshot == nil {
		return nil, errors.New("nil snapshot")
	}

	idx := newIndex(passID)
	for _, entry := range snapshot.Files {
		if entry.Value == nil {
			return nil, fmt.Errorf("snapshot file %q has no record", entry.Key)
		}
		if _, exists := idx.files[entry.Key]; !exists {
			idx.order = append(idx.order, entry.Key)
		}
		idx.files[entry.Key] = entry.Value
	}
	importPostings(idx.functions, snapshot.Functions)
	importPostings(idx.classes, snapshot.Classes)
	importPostings(idx.imports, snapshot.Imports)
	importPostings(idx.exports, snapshot.Exports)
	importPostings(idx.keywords, snapshot.Keywords)
	idx.stats = snapshot.Stats
	idx.finish()
	return idx, nil
}

func importPostings(p *postings, entries []PostingEntry) {
	for _, entry := range entries {
		p.set(entry.Key, entry.Value)
	}
}

// MarshalJSON encodes the entry as a two-element array.
func (e FileEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Key, e.Value})
}

// UnmarshalJSON decodes a two-element array.
func (e *FileEntry) UnmarshalJSON(data []byte) error {
	return unmarshalPairJSON(data, &e.Key, &e.Value)
}

// MarshalYAML encodes the entry as a two-element sequence.
func (e FileEntry) MarshalYAML() (any, error) {
	return []any{e.Key, e.Value}, nil
}

// UnmarshalYAML decodes a two-element sequence.
func (e *FileEntry) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalPairYAML(node, &e.Key, &e.Value)
}

// MarshalJSON encodes the entry as a two-element array.
func (e PostingEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Key, e.Value})
}

// UnmarshalJSON decodes a two-element array.
func (e *PostingEntry) UnmarshalJSON(data []byte) error {
	return unmarshalPairJSON(data, &e.Key, &e.Value)
}

// MarshalYAML encodes the entry as a two-element sequence.
func (e PostingEntry) MarshalYAML() (any, error) {
	return []any{e.Key, e.Value}, nil
}

// UnmarshalYAML decodes a two-element sequence.
func (e *PostingEntry) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalPairYAML(node, &e.Key, &e.Value)
}

func unmarshalPairJSON(data []byte, key *string, value any) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decoding pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [key, value] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], key); err != nil {
		return fmt.Errorf("decoding pair key: %w", err)
	}
	if err := json.Unmarshal(pair[1], value); err != nil {
		return fmt.Errorf("decoding value of %q: %w", *key, err)
	}
	return nil
}

func unmarshalPairYAML(node *yaml.Node, key *string, value any) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: expected [key, value] pair", node.Line)
	}
	if err := node.Content[0].Decode(key); err != nil {
		return fmt.Errorf("decoding pair key: %w", err)
	}
	if err := node.Content[1].Decode(value); err != nil {
		return fmt.Errorf("decoding value of %q: %w", *key, err)
	}
	return nil
}

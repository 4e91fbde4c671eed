package index

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func Test_Snapshot_PairsEncodeAsArrays(t *testing.T) {
	idx := buildTestIndex(t)

	data, err := json.Marshal(idx.Export(1000))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var functions []json.RawMessage
	if err := json.Unmarshal(raw["functions"], &functions); err != nil {
		t.Fatalf("functions is not an array: %v", err)
	}
	if len(functions) == 0 {
		t.Fatal("expected function entries")
	}
	var firstFunction []any
	if err := json.Unmarshal(functions[0], &firstFunction); err != nil {
		t.Fatalf("function entry is not an array: %v", err)
	}
	if len(firstFunction) != 2 || firstFunction[0] != "foo" {
		t.Errorf("expected [\"foo\", [...]] pair, got %v", firstFunction)
	}
}

// The keyword cap keeps the first terms in insertion order, not the most
// frequent ones.
func Test_Snapshot_KeywordCapIsInsertionOrder(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	for i := 0; i < 5; i++ {
		mustAdd(t, b, newSourceFile(fmt.Sprintf("f%d.js", i), nil, nil, nil), []string{fmt.Sprintf("term%d", i), "common"})
	}
	idx := b.Build(time.Now(), 0)

	snapshot := idx.Export(3)
	if len(snapshot.Keywords) != 3 {
		t.Fatalf("expected 3 keyword entries, got %d", len(snapshot.Keywords))
	}
	want := []string{"term0", "common", "term1"}
	for i, entry := range snapshot.Keywords {
		if entry.Key != want[i] {
			t.Errorf("keyword[%d] = %s, want %s", i, entry.Key, want[i])
		}
	}

	if all := idx.Export(0); len(all.Keywords) != 6 {
		t.Errorf("expected all 6 terms without a cap, got %d", len(all.Keywords))
	}
}

func Test_Snapshot_RoundTripJSON(t *testing.T) {
	assertSnapshotFileRoundTrip(t, "index.json")
}

func Test_Snapshot_RoundTripYAML(t *testing.T) {
	assertSnapshotFileRoundTrip(t, "index.yaml")
}

func assertSnapshotFileRoundTrip(t *testing.T, name string) {
	t.Helper()
	idx := buildTestIndex(t)
	path := filepath.Join(t.TempDir(), name)

	if err := WriteSnapshotFile(path, idx.Export(1000)); err != nil {
		t.Fatalf("write: %v", err)
	}
	snapshot, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	restored, err := FromSnapshot(snapshot, "restored")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.PassID() != "restored" {
		t.Errorf("unexpected pass id %s", restored.PassID())
	}
	if restored.Stats().TotalFiles != idx.Stats().TotalFiles || restored.Stats().TotalFunctions != idx.Stats().TotalFunctions {
		t.Errorf("stats mismatch: %+v vs %+v", restored.Stats(), idx.Stats())
	}
	if restored.Stats().Duration != idx.Stats().Duration {
		t.Errorf("duration mismatch: %v vs %v", restored.Stats().Duration, idx.Stats().Duration)
	}
	if files := restored.FunctionFiles("foo"); len(files) != 2 {
		t.Errorf("expected foo postings restored, got %v", files)
	}
	if files := restored.KeywordFiles("render"); len(files) != 2 {
		t.Errorf("expected render postings restored, got %v", files)
	}
	file, ok := restored.File("src/a.js")
	if !ok {
		t.Fatal("expected src/a.js to be restored")
	}
	if file.Source == nil || len(file.Source.Classes) != 1 || file.Source.Classes[0] != "Widget" {
		t.Errorf("source payload not restored: %+v", file.Source)
	}
	if !file.ModTime.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("mod time not restored: %v", file.ModTime)
	}
	if md, _ := restored.File("README.md"); md.Markdown == nil || md.Source != nil {
		t.Errorf("markdown payload not restored: %+v", md)
	}
	if restored.FullText() != nil {
		t.Error("expected no full-text store after restore")
	}
	if results, _ := restored.SearchByGlob("**/*.js", 10); len(results) != 2 {
		t.Errorf("expected glob search to work after restore, got %d", len(results))
	}
}

func Test_FromSnapshot_RejectsEmptyFileRecord(t *testing.T) {
	_, err := FromSnapshot(&Snapshot{Files: []FileEntry{{Key: "a.js"}}}, "x")
	if err == nil {
		t.Fatal("expected error for file entry without record")
	}
}

func Test_PostingEntry_UnmarshalJSON_RejectsWrongArity(t *testing.T) {
	var entry PostingEntry
	err := json.Unmarshal([]byte(`["a", ["b"], "extra"]`), &entry)
	if err == nil || !strings.Contains(err.Error(), "pair") {
		t.Fatalf("expected pair arity error, got %v", err)
	}
}

func Test_ReadSnapshotFile_Missing(t *testing.T) {
	if _, err := ReadSnapshotFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

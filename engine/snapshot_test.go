package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lexandro/codesearch-mcp/index"
)

var snapshotTree = map[string]string{
	"src/a.js":              "function foo() {}\nclass Widget {}\nrender(widget);",
	"src/b.js":              "const foo = () => {};\nimport './a';",
	"components/Button.tsx": "import Icon from './Icon';",
	"components/Icon.tsx":   "export const Icon = () => null;",
	"README.md":             "# Rendering Widgets\n",
	"package.json":          `{"name":"demo","dependencies":{"express":"1"}}`,
}

var snapshotQueries = []string{"foo", "widget", "render", "icon", "components", "express dependencies"}

func Test_Engine_SnapshotRoundTrip(t *testing.T) {
	source := indexTree(t, snapshotTree, Options{})
	snapshot, err := source.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	restored := newTestEngine(t, source.RootDir(), Options{})
	if err := restored.Import(snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}

	want := searchAll(t, source, snapshotQueries)
	got := searchAll(t, restored, snapshotQueries)
	for i, query := range snapshotQueries {
		if want[i] != got[i] {
			t.Errorf("query %q differs after import:\n%s\nvs\n%s", query, want[i], got[i])
		}
	}

	related, err := restored.SuggestRelated(context.Background(), "components/Button.tsx")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if icon, ok := findRelated(related, "components/Icon.tsx"); !ok || icon.Reason != ReasonImported {
		t.Errorf("expected import edge restored, got %+v", related)
	}
	if restored.Stats().TotalFunctions != source.Stats().TotalFunctions {
		t.Errorf("stats not restored: %+v", restored.Stats())
	}
}

func Test_Engine_SnapshotFileRoundTrip(t *testing.T) {
	for _, name := range []string{"index.json", "index.yaml"} {
		t.Run(name, func(t *testing.T) {
			source := indexTree(t, snapshotTree, Options{})
			path := filepath.Join(t.TempDir(), name)
			if _, err := source.ExportFile(path); err != nil {
				t.Fatalf("export: %v", err)
			}

			restored := newTestEngine(t, source.RootDir(), Options{})
			stats, err := restored.ImportFile(path)
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if stats.TotalFiles != len(snapshotTree) {
				t.Errorf("expected %d files, got %d", len(snapshotTree), stats.TotalFiles)
			}

			want := searchAll(t, source, snapshotQueries)
			got := searchAll(t, restored, snapshotQueries)
			for i, query := range snapshotQueries {
				if want[i] != got[i] {
					t.Errorf("query %q differs after import", query)
				}
			}
		})
	}
}

func Test_Engine_ExportBeforeIndex(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), Options{})

	if _, err := e.Export(); !errors.Is(err, ErrNotIndexed) {
		t.Errorf("expected ErrNotIndexed, got %v", err)
	}
}

func Test_Engine_ExportKeywordLimit(t *testing.T) {
	e := indexTree(t, map[string]string{
		"a.js": "alpha beta gamma delta epsilon",
	}, Options{ExportKeywordLimit: 3})

	snapshot, err := e.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(snapshot.Keywords) != 3 {
		t.Errorf("expected 3 exported terms, got %d", len(snapshot.Keywords))
	}
	// The in-memory index keeps all of them.
	if e.Current().KeywordCount() != 5 {
		t.Errorf("expected 5 indexed terms, got %d", e.Current().KeywordCount())
	}
}

func Test_Engine_GrepAfterImportUnavailable(t *testing.T) {
	source := indexTree(t, snapshotTree, Options{FullText: true})
	if _, _, err := source.Grep(context.Background(), index.GrepOptions{Query: "foo"}); err != nil {
		t.Fatalf("grep before import: %v", err)
	}

	snapshot, _ := source.Export()
	if err := source.Import(snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, _, err := source.Grep(context.Background(), index.GrepOptions{Query: "foo"}); !errors.Is(err, ErrFullTextUnavailable) {
		t.Errorf("expected ErrFullTextUnavailable, got %v", err)
	}
}

func Test_Engine_ImportRejectsBadSnapshot(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), Options{})

	err := e.Import(&index.Snapshot{Files: []index.FileEntry{{Key: "a.js"}}})
	if err == nil {
		t.Fatal("expected error")
	}
	if e.Current() != nil {
		t.Error("a rejected snapshot must not be published")
	}
}

func Test_Engine_ExportIntoRootIsNotIndexed(t *testing.T) {
	e := indexTree(t, snapshotTree, Options{})
	before := e.Stats().TotalFiles

	if _, err := e.ExportFile(filepath.Join(e.RootDir(), "index.json")); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := e.Reindex(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	if after := e.Stats().TotalFiles; after != before {
		t.Errorf("expected %d files after exporting into the root, got %d", before, after)
	}
	if _, ok := e.Current().File("index.json"); ok {
		t.Error("the exported snapshot must not be indexed")
	}
	results, err := e.Search(context.Background(), "functions", SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, r := range results {
		if r.File.RelativePath == "index.json" {
			t.Errorf("snapshot keys leaked into the index: %+v", r)
		}
	}
}

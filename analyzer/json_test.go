package analyzer

import (
	"slices"
	"testing"
)

func Test_JSONAnalyzer_PackageManifest(t *testing.T) {
	content := `{"name":"demo","dependencies":{"express":"^4.0.0"},"devDependencies":{"jest":"^29.0.0","eslint":"^8.0.0"}}`
	result, err := NewJSONAnalyzer().Analyze("package.json", []byte(content))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	info := result.JSON
	if info == nil {
		t.Fatal("expected JSON payload")
	}
	if info.PackageName != "demo" {
		t.Errorf("package name = %q", info.PackageName)
	}
	if !slices.Equal(info.Dependencies, []string{"express"}) {
		t.Errorf("dependencies = %v", info.Dependencies)
	}
	if !slices.Equal(info.DevDependencies, []string{"jest", "eslint"}) {
		t.Errorf("devDependencies = %v", info.DevDependencies)
	}
	if !slices.Equal(info.Keys, []string{"name", "dependencies", "devDependencies"}) {
		t.Errorf("keys = %v", info.Keys)
	}
	if !slices.Equal(result.Keywords, info.Keys) {
		t.Errorf("expected keys as keywords, got %v", result.Keywords)
	}
}

func Test_JSONAnalyzer_NestedPackageManifest(t *testing.T) {
	result, err := NewJSONAnalyzer().Analyze("packages/web/package.json", []byte(`{"name":"web"}`))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if result.JSON.PackageName != "web" || len(result.JSON.Dependencies) != 0 {
		t.Errorf("unexpected manifest info %+v", result.JSON)
	}
}

func Test_JSONAnalyzer_OrdinaryFileHasNoPackageFields(t *testing.T) {
	result, err := NewJSONAnalyzer().Analyze("config/settings.json", []byte(`{"name":"x","dependencies":{"a":"1"}}`))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if result.JSON.PackageName != "" || result.JSON.Dependencies != nil {
		t.Errorf("expected no package fields, got %+v", result.JSON)
	}
}

func Test_JSONAnalyzer_InvalidJSON(t *testing.T) {
	result, err := NewJSONAnalyzer().Analyze("broken.json", []byte(`{"name": `))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if result.JSON != nil || len(result.Keywords) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func Test_JSONAnalyzer_NonObjectTopLevel(t *testing.T) {
	result, err := NewJSONAnalyzer().Analyze("list.json", []byte(`[1, 2, 3]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.JSON == nil || len(result.JSON.Keys) != 0 {
		t.Errorf("expected no keys, got %+v", result.JSON)
	}
}

func Test_JSONAnalyzer_DuplicateKeysKeepFirstPosition(t *testing.T) {
	result, err := NewJSONAnalyzer().Analyze("dup.json", []byte(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(result.JSON.Keys, []string{"a", "b"}) {
		t.Errorf("keys = %v", result.JSON.Keys)
	}
}

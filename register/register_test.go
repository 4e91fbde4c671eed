package register

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

func readServers(t *testing.T, configPath string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	servers, ok := config["mcpServers"].(map[string]any)
	if !ok {
		t.Fatal("mcpServers not found or not an object")
	}
	return servers
}

func Test_DeriveServerName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/codesearch-mcp", "codesearch"},
		{"codesearch-mcp.exe", "codesearch"},
		{"/opt/search", "search"},
	}
	for _, tt := range tests {
		if got := DeriveServerName(tt.path); got != tt.want {
			t.Errorf("DeriveServerName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func Test_Register_ProjectAddsRoot(t *testing.T) {
	dir := t.TempDir()

	configPath, err := Register(Options{
		Scope:      ScopeProject,
		Directory:  dir,
		ServerName: "codesearch",
		BinaryPath: "/usr/local/bin/codesearch-mcp",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if configPath != filepath.Join(dir, ".mcp.json") {
		t.Errorf("configPath = %q", configPath)
	}

	entry, ok := readServers(t, configPath)["codesearch"].(map[string]any)
	if !ok {
		t.Fatal("codesearch entry not found")
	}
	var args []string
	for _, arg := range entry["args"].([]any) {
		args = append(args, arg.(string))
	}
	if !slices.Contains(args, "--root") || !slices.Contains(args, dir) {
		t.Errorf("expected --root %s in args, got %v", dir, args)
	}
}

func Test_Register_KeepsExplicitRoot(t *testing.T) {
	dir := t.TempDir()

	configPath, err := Register(Options{
		Scope:      ScopeProject,
		Directory:  dir,
		ServerName: "codesearch",
		BinaryPath: "/usr/local/bin/codesearch-mcp",
		ServerArgs: []string{"--root=/elsewhere"},
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	entry := readServers(t, configPath)["codesearch"].(map[string]any)
	args := entry["args"].([]any)
	if runtime.GOOS != "windows" && (len(args) != 1 || args[0] != "--root=/elsewhere") {
		t.Errorf("expected only the explicit root, got %v", args)
	}
}

func Test_Register_Errors(t *testing.T) {
	if _, err := Register(Options{Scope: "global", ServerName: "x"}); err == nil {
		t.Error("expected error for unknown scope")
	}
	if _, err := Register(Options{Scope: ScopeProject, Directory: t.TempDir()}); err == nil {
		t.Error("expected error for missing server name")
	}
}

func Test_writeConfig_UpdatesExistingEntry(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")

	initial := map[string]any{
		"mcpServers": map[string]any{
			"other-server": map[string]any{"command": "/usr/bin/other"},
			"codesearch":   map[string]any{"command": "/old/path"},
		},
		"theme": "dark",
	}
	initialData, _ := json.MarshalIndent(initial, "", "  ")
	if err := os.WriteFile(configPath, initialData, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := writeConfig(configPath, "codesearch", mcpServerEntry{Command: "/new/path"}); err != nil {
		t.Fatalf("writeConfig() error: %v", err)
	}

	servers := readServers(t, configPath)
	if servers["other-server"].(map[string]any)["command"] != "/usr/bin/other" {
		t.Error("other-server entry changed unexpectedly")
	}
	if servers["codesearch"].(map[string]any)["command"] != "/new/path" {
		t.Errorf("codesearch command = %v, want /new/path", servers["codesearch"])
	}

	data, _ := os.ReadFile(configPath)
	var config map[string]any
	json.Unmarshal(data, &config)
	if config["theme"] != "dark" {
		t.Errorf("expected unrelated keys to be preserved, got %v", config)
	}
}

func Test_writeConfig_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	if err := os.WriteFile(configPath, []byte("not valid json{{{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := writeConfig(configPath, "codesearch", mcpServerEntry{Command: "/bin/x"}); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func Test_buildEntry(t *testing.T) {
	binaryPath := "/usr/local/bin/codesearch-mcp"
	serverArgs := []string{"--root", "/projects"}

	entry := buildEntry(binaryPath, serverArgs)

	if runtime.GOOS == "windows" {
		if entry.Command != "cmd" || len(entry.Args) < 2 || entry.Args[0] != "/C" || entry.Args[1] != binaryPath {
			t.Errorf("unexpected entry %+v", entry)
		}
		return
	}
	if entry.Command != binaryPath {
		t.Errorf("command = %q, want %q", entry.Command, binaryPath)
	}
	if !slices.Equal(entry.Args, serverArgs) {
		t.Errorf("args = %v, want %v", entry.Args, serverArgs)
	}
}

func Test_resolveConfigPath(t *testing.T) {
	got, err := resolveConfigPath(ScopeProject, "")
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}
	absDir, _ := filepath.Abs(".")
	if want := filepath.Join(absDir, ".mcp.json"); got != want {
		t.Errorf("resolveConfigPath(project, \"\") = %q, want %q", got, want)
	}

	got, err = resolveConfigPath(ScopeUser, "")
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}
	homeDir, _ := os.UserHomeDir()
	if want := filepath.Join(homeDir, ".claude.json"); got != want {
		t.Errorf("resolveConfigPath(user) = %q, want %q", got, want)
	}
}

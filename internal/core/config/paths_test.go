package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePaths(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(minimalConfig + "\n[project]\nroot = \"src\"\nedges_file = \"deps.tsv\"\n\n[output]\npath = \"/abs/report.txt\"\ndot = \"graph.dot\"\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cwd := filepath.Join(string(filepath.Separator), "work")
	resolved, err := ResolvePaths(cfg, cwd)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}

	root := filepath.Join(cwd, "src")
	if resolved.ProjectRoot != root {
		t.Errorf("Expected root %q, got %q", root, resolved.ProjectRoot)
	}
	if resolved.EdgesFile != filepath.Join(root, "deps.tsv") {
		t.Errorf("Unexpected edges file %q", resolved.EdgesFile)
	}
	if resolved.OutputPath != filepath.Clean("/abs/report.txt") {
		t.Errorf("Unexpected output path %q", resolved.OutputPath)
	}
	if resolved.DotPath != filepath.Join(root, "graph.dot") {
		t.Errorf("Unexpected dot path %q", resolved.DotPath)
	}
	if resolved.DBPath != filepath.Join(root, "data", "database", "layercheck.db") {
		t.Errorf("Unexpected db path %q", resolved.DBPath)
	}

	if _, err := ResolvePaths(cfg, " "); err == nil {
		t.Error("Expected error for empty cwd")
	}
}

func TestDiscoverDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if got := DiscoverDefault(dir); got != "" {
		t.Fatalf("Expected no config, got %q", got)
	}

	nested := filepath.Join(dir, "data", "config", DefaultFileName)
	if err := os.MkdirAll(filepath.Dir(nested), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(nested, []byte(minimalConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := DiscoverDefault(dir); got != nested {
		t.Fatalf("Expected %q, got %q", nested, got)
	}

	top := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(top, []byte(minimalConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := DiscoverDefault(dir); got != top {
		t.Fatalf("Expected top-level config to win, got %q", got)
	}
}

func TestDetectProjectRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "internal", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := DetectProjectRoot([]string{nested})
	if err != nil {
		t.Fatalf("DetectProjectRoot failed: %v", err)
	}
	if root != filepath.Clean(dir) {
		t.Fatalf("Expected %q, got %q", dir, root)
	}
}

func TestResolveRelative(t *testing.T) {
	t.Parallel()

	if got := ResolveRelative("/base", ""); got != filepath.Clean("/base") {
		t.Errorf("Expected base for empty value, got %q", got)
	}
	if got := ResolveRelative("/base", "/abs"); got != filepath.Clean("/abs") {
		t.Errorf("Expected absolute value, got %q", got)
	}
	if got := ResolveRelative("/base", "rel/x"); got != filepath.Join("/base", "rel", "x") {
		t.Errorf("Expected joined value, got %q", got)
	}
}

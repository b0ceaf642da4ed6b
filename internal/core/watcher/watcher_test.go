package watcher

import (
	"layercheck/internal/core/errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, changed <-chan []string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change to %s", want)
		}
	}
}

func TestNew_RejectsNilCallback(t *testing.T) {
	w, err := New(100*time.Millisecond, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNew_RejectsBadGlob(t *testing.T) {
	_, err := New(0, []string{"[abc"}, nil, func([]string) {})
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := New(100*time.Millisecond, []string{"exclude_dir"}, []string{"*.exclude"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "test.go")
	if err := os.WriteFile(testFile, []byte("package main"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, testFile, 2*time.Second)

	excludeFile := filepath.Join(tmpDir, "test.exclude")
	if err := os.WriteFile(excludeFile, []byte("exclude me"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Base(p) == "test.exclude" {
				t.Error("excluded file triggered event")
			}
		}
	case <-time.After(500 * time.Millisecond):
	}

	subdir := filepath.Join(tmpDir, "newdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.go")
	if err := os.WriteFile(subFile, []byte("package nested"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, subFile, 2*time.Second)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := New(100*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.go")
	newPath := filepath.Join(tmpDir, "new.go")
	if err := os.WriteFile(oldPath, []byte("package main"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_WatchFileWatchesItsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	edges := filepath.Join(tmpDir, "edges.tsv")
	if err := os.WriteFile(edges, []byte("From\tTo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 8)
	w, err := New(50*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.SetFilters(Filters{Filenames: []string{"edges.tsv"}})

	if err := w.Watch([]string{edges}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(edges, []byte("From\tTo\na\tb\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, edges, 2*time.Second)
}

func TestWatcher_MissingPath(t *testing.T) {
	w, err := New(0, nil, nil, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	err = w.Watch([]string{filepath.Join(t.TempDir(), "missing")})
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestWatcher_LanguageFilters(t *testing.T) {
	w, err := New(10*time.Millisecond, nil, nil, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.SetFilters(FiltersFor("go", false))

	if !w.shouldExcludeFile("main.py") {
		t.Fatal("expected .py to be excluded when .go is the only enabled extension")
	}
	if w.shouldExcludeFile("go.mod") {
		t.Fatal("expected go.mod to be included via filename filter")
	}
	if !w.shouldExcludeFile("main_test.go") {
		t.Fatal("expected _test.go files to be excluded")
	}

	w.SetFilters(FiltersFor("go", true))
	if w.shouldExcludeFile("main_test.go") {
		t.Fatal("expected _test.go files to be included with tests enabled")
	}

	w.SetFilters(FiltersFor("python", false))
	if w.shouldExcludeFile("pkg/mod.py") {
		t.Fatal("expected .py to be included for python")
	}
}

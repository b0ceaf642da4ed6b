package parser

import (
	"sync"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

func goLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_go.Language())
}

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(goLanguage())

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	pool.Put(sp)
}

func TestParserPool_PutNil(t *testing.T) {
	pool := NewParserPool(goLanguage())

	// Put(nil) must not panic.
	pool.Put(nil)
}

func TestParserPool_ParsesValidGo(t *testing.T) {
	pool := NewParserPool(goLanguage())

	tree := pool.Parse([]byte("package main\n\nimport \"fmt\"\n"))
	if tree == nil {
		t.Fatal("expected non-nil tree")
	}
	defer tree.Close()

	if tree.RootNode().Kind() != "source_file" {
		t.Fatalf("expected source_file root, got %q", tree.RootNode().Kind())
	}
}

func TestParserPool_Concurrent(t *testing.T) {
	pool := NewParserPool(goLanguage())
	src := []byte("package p\n")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree := pool.Parse(src)
			if tree == nil {
				t.Error("expected non-nil tree")
				return
			}
			tree.Close()
		}()
	}
	wg.Wait()
}

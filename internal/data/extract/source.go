package extract

import (
	"context"
	"fmt"
	"io/fs"
	"layercheck/internal/core/errors"
	"layercheck/internal/engine/graph"
	"layercheck/internal/engine/parser"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"
)

// Source parses files of a single language with tree-sitter and maps each
// file to the module (package) that contains it.
type Source struct {
	Root         string
	Language     string
	Namespace    string
	IncludeTests bool
	ExcludeDirs  []string
	ExcludeFiles []string
}

type sourceFile struct {
	rel    string
	module string
	file   *parser.File
}

func (s Source) Extract(ctx context.Context) ([]graph.Edge, error) {
	p, err := parser.New(s.Language)
	if err != nil {
		return nil, err
	}
	lay, err := s.layout()
	if err != nil {
		return nil, err
	}

	paths, err := s.scan(ctx, p, lay)
	if err != nil {
		return nil, err
	}

	files := make([]sourceFile, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			abs := filepath.Join(s.Root, rel)
			content, err := os.ReadFile(abs)
			if err != nil {
				return errors.AddContext(errors.Wrap(err, errors.CodeExtractionFailure, "read source file"), errors.CtxPath, abs)
			}
			file, err := p.ParseFile(rel, content)
			if err != nil {
				return errors.AddContext(errors.Wrap(err, errors.CodeExtractionFailure, "parse source file"), errors.CtxPath, abs)
			}
			files[i] = sourceFile{rel: rel, file: file}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i := range files {
		files[i].module = lay.module(files[i].rel, files[i].file)
		lay.index(files[i].rel, files[i].module)
	}

	edges := make(edgeSet)
	for _, f := range files {
		if f.module == "" || !lay.inNamespace(f.module) {
			continue
		}
		for _, imp := range f.file.Imports {
			to, ok := lay.resolve(f.module, imp)
			if !ok || to == f.module || !lay.inNamespace(to) {
				continue
			}
			edges.add(f.module, to)
		}
	}
	slog.Debug("source files parsed", "root", s.Root, "language", s.Language, "files", len(files), "edges", len(edges))
	return edges.sorted(), nil
}

func (s Source) layout() (sourceLayout, error) {
	switch s.Language {
	case parser.LangGo:
		ns := s.Namespace
		if ns == "" {
			detected, err := DetectNamespace(s.Root)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeExtractionFailure, "project namespace is not configured")
			}
			ns = detected
		}
		return &goLayout{namespace: ns}, nil
	case parser.LangPython:
		return newPythonLayout(s.Namespace), nil
	case parser.LangJava:
		return newJavaLayout(s.Namespace), nil
	}
	return nil, errors.Newf(errors.CodeValidationError, "unsupported source language %q", s.Language)
}

// scan returns supported files under Root as sorted slash-separated
// relative paths.
func (s Source) scan(ctx context.Context, p *parser.Parser, lay sourceLayout) ([]string, error) {
	dirGlobs, err := compileGlobs(s.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(s.ExcludeFiles)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		base := filepath.Base(path)
		if d.IsDir() {
			if path != s.Root && matchAny(dirGlobs, base) {
				return filepath.SkipDir
			}
			return nil
		}
		if !p.IsSupportedPath(path) || matchAny(fileGlobs, base) {
			return nil
		}
		if !s.IncludeTests && lay.isTest(base) {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeExtractionFailure, "scan source tree"), errors.CtxPath, s.Root)
	}
	sort.Strings(files)
	return files, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude pattern %q", p))
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

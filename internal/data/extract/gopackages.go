package extract

import (
	"context"
	"fmt"
	"layercheck/internal/core/errors"
	"layercheck/internal/engine/graph"
	"layercheck/internal/engine/parser"
	"layercheck/internal/shared/util"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/tools/go/packages"
)

// GoPackages loads Go packages with the go tool and emits one edge per
// import that stays inside Namespace.
type GoPackages struct {
	Root      string
	Patterns  []string
	Namespace string
	Tests     bool
}

func (g GoPackages) Extract(ctx context.Context) ([]graph.Edge, error) {
	patterns := g.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	namespace := g.Namespace
	if namespace == "" {
		ns, err := DetectNamespace(g.Root)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeExtractionFailure, "project namespace is not configured")
		}
		namespace = ns
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedImports | packages.NeedFiles,
		Dir:     g.Root,
		Tests:   g.Tests,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeExtractionFailure, "load packages"),
			errors.CtxPath, g.Root,
		)
	}

	// Packages in an import cycle come back with an error and no imports;
	// their imports are read from the package files instead.
	var loadErrs []string
	cyclic := make(map[*packages.Package]bool)
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			if isImportCycle(e) {
				cyclic[pkg] = true
				continue
			}
			loadErrs = append(loadErrs, e.Error())
		}
	})
	if len(loadErrs) > 0 {
		return nil, errors.AddContext(
			errors.New(errors.CodeExtractionFailure, fmt.Sprintf("%d package errors: %s", len(loadErrs), strings.Join(loadErrs, "; "))),
			errors.CtxPath, g.Root,
		)
	}

	var src *parser.Parser
	if len(cyclic) > 0 {
		if src, err = parser.New(parser.LangGo); err != nil {
			return nil, err
		}
	}

	edges := make(edgeSet)
	for _, pkg := range pkgs {
		from := packagePath(pkg.PkgPath)
		if from == "" || !util.HasPathPrefix(from, namespace, "/") {
			continue
		}
		imports := make([]string, 0, len(pkg.Imports))
		for path := range pkg.Imports {
			imports = append(imports, path)
		}
		if cyclic[pkg] {
			recovered, err := fileImports(src, pkg.GoFiles)
			if err != nil {
				return nil, errors.AddContext(err, errors.CtxModule, pkg.PkgPath)
			}
			imports = append(imports, recovered...)
			slog.Debug("recovered imports of cyclic package", "package", pkg.PkgPath, "imports", len(recovered))
		}
		for _, path := range imports {
			to := packagePath(path)
			if to == from || !util.HasPathPrefix(to, namespace, "/") {
				continue
			}
			edges.add(from, to)
		}
	}
	slog.Debug("go packages loaded", "root", g.Root, "packages", len(pkgs), "edges", len(edges))
	return edges.sorted(), nil
}

// packagePath folds test variants into the package under test. Synthesised
// test mains are dropped.
func packagePath(path string) string {
	if strings.HasSuffix(path, ".test") {
		return ""
	}
	return strings.TrimSuffix(path, "_test")
}

func isImportCycle(e packages.Error) bool {
	return strings.Contains(e.Msg, "import cycle not allowed")
}

// fileImports parses the import declarations of files.
func fileImports(src *parser.Parser, files []string) ([]string, error) {
	var out []string
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeExtractionFailure, "read package file"),
				errors.CtxPath, path,
			)
		}
		file, err := src.ParseFile(path, content)
		if err != nil {
			return nil, err
		}
		for _, imp := range file.Imports {
			out = append(out, imp.Module)
		}
	}
	return out, nil
}

package extract

import (
	"layercheck/internal/engine/parser"
	"layercheck/internal/shared/util"
	"path"
	"strings"
)

// sourceLayout maps a language's files and imports onto module paths.
type sourceLayout interface {
	isTest(name string) bool
	module(rel string, file *parser.File) string
	// index registers a file after its module is known so later imports can
	// be resolved against the project.
	index(rel, module string)
	resolve(from string, imp parser.Import) (string, bool)
	inNamespace(module string) bool
}

// goLayout treats every directory as one package under namespace.
type goLayout struct {
	namespace string
}

func (l *goLayout) isTest(name string) bool {
	return strings.HasSuffix(name, "_test.go")
}

func (l *goLayout) module(rel string, _ *parser.File) string {
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	return util.JoinNamespace(l.namespace, dir, "/")
}

func (l *goLayout) index(string, string) {}

func (l *goLayout) resolve(_ string, imp parser.Import) (string, bool) {
	return imp.Module, imp.Module != ""
}

func (l *goLayout) inNamespace(module string) bool {
	return util.HasPathPrefix(module, l.namespace, "/")
}

// pythonLayout uses the dotted package directory as the module. Files at
// the root are their own module.
type pythonLayout struct {
	namespace string
	// names maps every importable dotted name (package or module file) to
	// the package module that contains it.
	names map[string]string
}

func newPythonLayout(namespace string) *pythonLayout {
	return &pythonLayout{namespace: namespace, names: make(map[string]string)}
}

func (l *pythonLayout) isTest(name string) bool {
	return strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py") || name == "conftest.py"
}

func (l *pythonLayout) module(rel string, _ *parser.File) string {
	dir := path.Dir(rel)
	if dir == "." {
		return strings.TrimSuffix(rel, ".py")
	}
	return dotted(dir)
}

func (l *pythonLayout) index(rel, module string) {
	l.names[module] = module
	stem := strings.TrimSuffix(path.Base(rel), ".py")
	if stem != "__init__" && path.Dir(rel) != "." {
		l.names[module+"."+stem] = module
	}
}

func (l *pythonLayout) resolve(from string, imp parser.Import) (string, bool) {
	name := imp.Module
	if imp.Level > 0 {
		base := strings.Split(from, ".")
		up := imp.Level - 1
		if up >= len(base) {
			return "", false
		}
		base = base[:len(base)-up]
		if name != "" {
			base = append(base, name)
		}
		name = strings.Join(base, ".")
	}
	for name != "" {
		if module, ok := l.names[name]; ok {
			return module, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return "", false
}

func (l *pythonLayout) inNamespace(module string) bool {
	return l.namespace == "" || util.HasPathPrefix(module, l.namespace, ".")
}

// javaLayout uses the declared package as the module.
type javaLayout struct {
	namespace string
	packages  map[string]bool
}

func newJavaLayout(namespace string) *javaLayout {
	return &javaLayout{namespace: namespace, packages: make(map[string]bool)}
}

func (l *javaLayout) isTest(name string) bool {
	stem := strings.TrimSuffix(name, ".java")
	return strings.HasSuffix(stem, "Test") || strings.HasSuffix(stem, "Tests") || strings.HasSuffix(stem, "IT")
}

func (l *javaLayout) module(rel string, file *parser.File) string {
	if file != nil && file.Package != "" {
		return file.Package
	}
	dir := path.Dir(rel)
	if dir == "." {
		return ""
	}
	return dotted(dir)
}

func (l *javaLayout) index(_ string, module string) {
	if module != "" {
		l.packages[module] = true
	}
}

// resolve strips the imported type (and member for static imports) to reach
// the package. Imports of packages not declared in the project are dropped.
func (l *javaLayout) resolve(_ string, imp parser.Import) (string, bool) {
	drop := 1
	switch {
	case imp.Static && imp.Wildcard:
		drop = 1
	case imp.Static:
		drop = 2
	case imp.Wildcard:
		drop = 0
	}
	name := imp.Module
	for i := 0; i < drop; i++ {
		j := strings.LastIndexByte(name, '.')
		if j < 0 {
			return "", false
		}
		name = name[:j]
	}
	if !l.packages[name] {
		return "", false
	}
	return name, true
}

func (l *javaLayout) inNamespace(module string) bool {
	return l.namespace == "" || util.HasPathPrefix(module, l.namespace, ".")
}

func dotted(dir string) string {
	return strings.ReplaceAll(dir, "/", ".")
}

package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractPython collects import statements anywhere in the module, since
// Python allows imports inside functions and conditionals.
func extractPython(root *sitter.Node, source []byte, file *File) {
	walkPython(root, source, file)
}

func walkPython(node *sitter.Node, source []byte, file *File) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "import_statement":
		extractPyImportStatement(node, source, file)
		return
	case "import_from_statement":
		extractPyFromImportStatement(node, source, file)
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkPython(node.Child(i), source, file)
	}
}

// extractPyImportStatement handles "import os" / "import sys as s".
func extractPyImportStatement(node *sitter.Node, source []byte, file *File) {
	line := nodeLine(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "dotted_name":
			file.Imports = append(file.Imports, Import{Module: nodeText(ch, source), Line: line})
		case "aliased_import":
			module, alias := extractPyAliasedImport(ch, source)
			if module != "" {
				file.Imports = append(file.Imports, Import{Module: module, Alias: alias, Line: line})
			}
		}
	}
}

// extractPyFromImportStatement handles "from a.b import c" and relative
// forms such as "from ..pkg import x". Only the "from" target is recorded.
func extractPyFromImportStatement(node *sitter.Node, source []byte, file *File) {
	line := nodeLine(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "dotted_name":
			file.Imports = append(file.Imports, Import{Module: nodeText(ch, source), Line: line})
			return
		case "relative_import":
			text := nodeText(ch, source)
			module := strings.TrimLeft(text, ".")
			file.Imports = append(file.Imports, Import{
				Module: module,
				Level:  len(text) - len(module),
				Line:   line,
			})
			return
		}
	}
}

// extractPyAliasedImport returns (module, alias) from an aliased_import node.
func extractPyAliasedImport(node *sitter.Node, source []byte) (module, alias string) {
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "dotted_name":
			if module == "" {
				module = nodeText(ch, source)
			}
		case "identifier":
			alias = nodeText(ch, source)
		}
	}
	return
}

package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractGo reads the package clause and import declarations. Both are
// top-level in a Go file, so there is no need to descend into bodies.
func extractGo(root *sitter.Node, source []byte, file *File) {
	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		if node == nil {
			continue
		}
		switch node.Kind() {
		case "package_clause":
			for j := uint(0); j < node.ChildCount(); j++ {
				ch := node.Child(j)
				if ch != nil && ch.Kind() == "package_identifier" {
					file.Package = nodeText(ch, source)
				}
			}
		case "import_declaration":
			extractGoImportDecl(node, source, file)
		}
	}
}

// extractGoImportDecl handles both single and parenthesised forms.
func extractGoImportDecl(node *sitter.Node, source []byte, file *File) {
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "import_spec":
			addGoImportSpec(ch, source, file)
		case "import_spec_list":
			for j := uint(0); j < ch.ChildCount(); j++ {
				spec := ch.Child(j)
				if spec != nil && spec.Kind() == "import_spec" {
					addGoImportSpec(spec, source, file)
				}
			}
		}
	}
}

func addGoImportSpec(spec *sitter.Node, source []byte, file *File) {
	var alias, module string
	for i := uint(0); i < spec.ChildCount(); i++ {
		ch := spec.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "package_identifier", "blank_identifier", "dot":
			alias = nodeText(ch, source)
		case "interpreted_string_literal", "raw_string_literal":
			module = strings.Trim(nodeText(ch, source), `"`+"`")
		}
	}
	if module == "" {
		return
	}
	file.Imports = append(file.Imports, Import{
		Module: module,
		Alias:  alias,
		Line:   nodeLine(spec),
	})
}

package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func extractJava(root *sitter.Node, source []byte, file *File) {
	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		if node == nil {
			continue
		}
		switch node.Kind() {
		case "package_declaration":
			if name := javaName(node, source); name != "" {
				file.Package = name
			}
		case "import_declaration":
			imp := Import{Line: nodeLine(node)}
			for j := uint(0); j < node.ChildCount(); j++ {
				ch := node.Child(j)
				if ch == nil {
					continue
				}
				switch ch.Kind() {
				case "static":
					imp.Static = true
				case "asterisk":
					imp.Wildcard = true
				case "scoped_identifier", "identifier":
					imp.Module = nodeText(ch, source)
				}
			}
			if imp.Module != "" {
				file.Imports = append(file.Imports, imp)
			}
		}
	}
}

func javaName(node *sitter.Node, source []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		if kind := ch.Kind(); kind == "scoped_identifier" || kind == "identifier" {
			return nodeText(ch, source)
		}
	}
	return ""
}

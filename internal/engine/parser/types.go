package parser

// Import is one import statement target as written in the source.
type Import struct {
	Module string
	Alias  string
	Line   int
	// Level counts leading dots of a relative Python import. Zero means
	// absolute.
	Level int
	// Static marks a Java static import, whose last segment names a member.
	Static bool
	// Wildcard marks an on-demand Java import (a.b.*).
	Wildcard bool
}

type File struct {
	Path     string
	Language string
	// Package is the declared package name: the package clause in Go or the
	// package declaration in Java. Empty for Python.
	Package string
	Imports []Import
}

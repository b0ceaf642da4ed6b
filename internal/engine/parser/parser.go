package parser

import (
	"fmt"
	"layercheck/internal/core/errors"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const (
	LangGo     = "go"
	LangPython = "python"
	LangJava   = "java"
)

type extractFunc func(root *sitter.Node, source []byte, file *File)

type language struct {
	extensions []string
	grammar    func() *sitter.Language
	extract    extractFunc
}

var languages = map[string]language{
	LangGo: {
		extensions: []string{".go"},
		grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_go.Language()) },
		extract:    extractGo,
	},
	LangPython: {
		extensions: []string{".py"},
		grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_python.Language()) },
		extract:    extractPython,
	},
	LangJava: {
		extensions: []string{".java"},
		grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_java.Language()) },
		extract:    extractJava,
	},
}

// SupportedLanguages returns the language names accepted by New, sorted.
func SupportedLanguages() []string {
	out := make([]string, 0, len(languages))
	for name := range languages {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Extensions lists the file extensions of a supported language.
func Extensions(lang string) []string {
	l, ok := languages[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return nil
	}
	return append([]string(nil), l.extensions...)
}

// Parser extracts imports from source files of the enabled languages.
type Parser struct {
	pools      map[string]*ParserPool
	extract    map[string]extractFunc
	extensions map[string]string
}

func New(langs ...string) (*Parser, error) {
	p := &Parser{
		pools:      make(map[string]*ParserPool, len(langs)),
		extract:    make(map[string]extractFunc, len(langs)),
		extensions: make(map[string]string),
	}
	for _, name := range langs {
		name = strings.ToLower(strings.TrimSpace(name))
		lang, ok := languages[name]
		if !ok {
			return nil, errors.Newf(errors.CodeValidationError, "unsupported source language %q (supported: %s)",
				name, strings.Join(SupportedLanguages(), ", "))
		}
		p.pools[name] = NewParserPool(lang.grammar())
		p.extract[name] = lang.extract
		for _, ext := range lang.extensions {
			p.extensions[ext] = name
		}
	}
	return p, nil
}

// Language returns the enabled language for path, or "" when unsupported.
func (p *Parser) Language(path string) string {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.Language(path) != ""
}

// ParseFile parses content and returns the file's package and imports.
func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	lang := p.Language(path)
	if lang == "" {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, "unsupported file type"),
			errors.CtxPath, path,
		)
	}

	tree := p.pools[lang].Parse(content)
	if tree == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeExtractionFailure, fmt.Sprintf("parse failed for %s source", lang)),
			errors.CtxPath, path,
		)
	}
	defer tree.Close()

	file := &File{Path: path, Language: lang}
	p.extract[lang](tree.RootNode(), content, file)
	return file, nil
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start >= end || end > uint(len(source)) {
		return ""
	}
	return string(source[start:end])
}

func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

package tier

import (
	"layercheck/internal/core/errors"
	"layercheck/internal/shared/util"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// MatchKind selects how a pattern is compared against a module path.
type MatchKind string

const (
	// MatchSubstring matches when the pattern occurs anywhere in the full path.
	MatchSubstring MatchKind = "substring"
	// MatchPrefix matches namespace-relative paths at a segment boundary.
	MatchPrefix MatchKind = "prefix"
	// MatchGlob matches namespace-relative paths against a glob whose
	// wildcards stop at the separator.
	MatchGlob MatchKind = "glob"
)

const DefaultSeparator = "/"

// Options describe how module paths are laid out.
type Options struct {
	Namespace string
	Separator string
}

func (o Options) separator() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}

// ParseMatchKind maps a config string onto a MatchKind. The empty string is
// the substring default.
func ParseMatchKind(raw string) (MatchKind, error) {
	switch MatchKind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchPrefix:
		return MatchPrefix, nil
	case MatchGlob:
		return MatchGlob, nil
	default:
		return "", errors.AddContext(
			errors.Newf(errors.CodeValidationError, "unknown match kind %q", raw),
			errors.CtxPattern, raw,
		)
	}
}

// Matcher is a compiled pattern. The zero value matches nothing.
type Matcher struct {
	raw       string
	kind      MatchKind
	namespace string
	sep       string
	glob      glob.Glob
}

// CompilePattern validates and compiles raw for the given kind.
func CompilePattern(raw string, kind MatchKind, opts Options) (Matcher, error) {
	if strings.TrimSpace(raw) == "" {
		return Matcher{}, errors.New(errors.CodeValidationError, "pattern must not be empty")
	}
	if kind == "" {
		kind = MatchSubstring
	}

	m := Matcher{
		raw:       raw,
		kind:      kind,
		namespace: opts.Namespace,
		sep:       opts.separator(),
	}

	switch kind {
	case MatchSubstring:
	case MatchPrefix:
		m.raw = strings.TrimSuffix(raw, m.sep)
		if m.raw == "" {
			return Matcher{}, errors.AddContext(
				errors.New(errors.CodeValidationError, "prefix pattern must name at least one segment"),
				errors.CtxPattern, raw,
			)
		}
	case MatchGlob:
		sepRune, _ := utf8.DecodeRuneInString(m.sep)
		g, err := glob.Compile(raw, sepRune)
		if err != nil {
			return Matcher{}, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "invalid glob pattern"),
				errors.CtxPattern, raw,
			)
		}
		m.glob = g
	default:
		return Matcher{}, errors.AddContext(
			errors.Newf(errors.CodeValidationError, "unknown match kind %q", kind),
			errors.CtxPattern, raw,
		)
	}
	return m, nil
}

// Raw returns the pattern as written by the caller.
func (m Matcher) Raw() string {
	return m.raw
}

func (m Matcher) Kind() MatchKind {
	return m.kind
}

// Match reports whether path satisfies the pattern.
func (m Matcher) Match(path string) bool {
	switch m.kind {
	case MatchSubstring:
		return strings.Contains(path, m.raw)
	case MatchPrefix:
		return util.HasPathPrefix(util.TrimNamespace(path, m.namespace, m.sep), m.raw, m.sep)
	case MatchGlob:
		return m.glob != nil && m.glob.Match(util.TrimNamespace(path, m.namespace, m.sep))
	default:
		return false
	}
}

// MatcherSet matches when any of its members does.
type MatcherSet []Matcher

// CompilePatterns compiles every raw pattern with the same kind.
func CompilePatterns(raws []string, kind MatchKind, opts Options) (MatcherSet, error) {
	set := make(MatcherSet, 0, len(raws))
	for _, raw := range raws {
		m, err := CompilePattern(raw, kind, opts)
		if err != nil {
			return nil, err
		}
		set = append(set, m)
	}
	return set, nil
}

// Match returns the first member that matches path.
func (s MatcherSet) Match(path string) (Matcher, bool) {
	for _, m := range s {
		if m.Match(path) {
			return m, true
		}
	}
	return Matcher{}, false
}

package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HasPathPrefix returns true when p equals prefix or is nested below prefix
// using sep as the segment delimiter.
func HasPathPrefix(p, prefix, sep string) bool {
	if sep == "" {
		sep = "/"
	}
	if p == "" || prefix == "" {
		return p == prefix
	}
	if p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+sep)
}

// TrimNamespace strips namespace+sep from p. Paths outside the namespace and
// the namespace root itself are returned unchanged.
func TrimNamespace(p, namespace, sep string) string {
	if namespace == "" {
		return p
	}
	if sep == "" {
		sep = "/"
	}
	if rest, ok := strings.CutPrefix(p, namespace+sep); ok {
		return rest
	}
	return p
}

// JoinNamespace is the inverse of TrimNamespace: it prefixes rel with
// namespace+sep. An empty namespace or rel returns the other unchanged.
func JoinNamespace(namespace, rel, sep string) string {
	if sep == "" {
		sep = "/"
	}
	switch {
	case namespace == "":
		return rel
	case rel == "":
		return namespace
	}
	return namespace + sep + rel
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteFileWithDirs creates parent directories (0755) and writes the file with perm.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, perm)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	ProjectRoot string
	DBPath      string
	EdgesFile   string
	OutputPath  string
	DotPath     string
}

// ResolvePaths anchors the project root at cwd and every other path at the
// project root.
func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	projectRoot := ResolveRelative(cwd, cfg.Project.Root)
	resolved := ResolvedPaths{
		ProjectRoot: projectRoot,
		DBPath:      ResolveRelative(projectRoot, cfg.DB.Path),
	}
	if p := strings.TrimSpace(cfg.Project.EdgesFile); p != "" {
		resolved.EdgesFile = ResolveRelative(projectRoot, p)
	}
	if p := strings.TrimSpace(cfg.Output.Path); p != "" {
		resolved.OutputPath = ResolveRelative(projectRoot, p)
	}
	if p := strings.TrimSpace(cfg.Output.Dot); p != "" {
		resolved.DotPath = ResolveRelative(projectRoot, p)
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DiscoverDefault looks for a config file in the conventional locations
// under dir. It returns "" when none exists.
func DiscoverDefault(dir string) string {
	candidates := []string{
		filepath.Join(dir, DefaultFileName),
		filepath.Join(dir, "data", "config", DefaultFileName),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// DetectProjectRoot walks up from each candidate until a directory holding
// go.mod, .git or a layercheck config is found. Falls back to the working
// directory.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		"go.mod",
		".git",
		DefaultFileName,
		filepath.Join("data", "config", DefaultFileName),
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}

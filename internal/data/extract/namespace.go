package extract

import (
	"fmt"
	"layercheck/internal/core/errors"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// DetectNamespace reads go.mod in root and returns its module path.
func DetectNamespace(root string) (string, error) {
	modPath := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.AddContext(
				errors.New(errors.CodeNotFound, fmt.Sprintf("go.mod not found in %s", root)),
				errors.CtxPath, modPath,
			)
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}

	modFile, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeExtractionFailure, "failed to parse go.mod")
	}
	if modFile.Module == nil || modFile.Module.Mod.Path == "" {
		return "", errors.AddContext(
			errors.New(errors.CodeExtractionFailure, "go.mod has no module directive"),
			errors.CtxPath, modPath,
		)
	}
	return modFile.Module.Mod.Path, nil
}

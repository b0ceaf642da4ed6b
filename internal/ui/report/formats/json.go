package formats

import (
	"encoding/json"
	"layercheck/internal/engine/findings"
	"layercheck/internal/shared/version"
)

type jsonDocument struct {
	Tool    string          `json:"tool"`
	Version string          `json:"version"`
	Clean   bool            `json:"clean"`
	Report  findings.Report `json:"report"`
}

func GenerateJSON(r findings.Report) ([]byte, error) {
	return json.MarshalIndent(jsonDocument{
		Tool:    "layercheck",
		Version: version.Version,
		Clean:   r.IsClean(),
		Report:  r,
	}, "", "  ")
}

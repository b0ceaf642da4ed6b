package formats

import (
	"encoding/json"
	"fmt"
	"layercheck/internal/engine/findings"
	"layercheck/internal/engine/layering"
	"layercheck/internal/shared/version"
	"strings"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	RuleIDUpward = "LAYER001"
	RuleIDBreach = "LAYER002"
	RuleIDCycle  = "LAYER003"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID     string            `json:"ruleId"`
	Level      string            `json:"level"`
	Message    sarifMessage      `json:"message"`
	Locations  []sarifLocation   `json:"locations,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

// Modules have no single file, so results point at logical locations.
type sarifLocation struct {
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations"`
}

type sarifLogicalLocation struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

// GenerateSARIF builds a SARIF v2.1.0 document with one result per finding.
func GenerateSARIF(r findings.Report) ([]byte, error) {
	rules := buildSARIFRules(r)
	results := make([]sarifResult, 0, r.ViolationCount+r.CycleCount)

	for _, v := range r.Violations {
		result := sarifResult{
			Level:     "error",
			Locations: []sarifLocation{moduleLocation(v.From)},
		}
		switch v.Kind {
		case layering.UpwardDependency:
			result.RuleID = RuleIDUpward
			result.Message = sarifMessage{Text: fmt.Sprintf(
				"Upward dependency: %s (tier %d, %s) imports %s (tier %d, %s)",
				v.From, v.FromTier, v.FromPattern, v.To, v.ToTier, v.ToPattern)}
		case layering.EncapsulationBreach:
			result.RuleID = RuleIDBreach
			result.Message = sarifMessage{Text: fmt.Sprintf(
				"Encapsulation breach of %q: %s imports internal module %s", v.Boundary, v.From, v.To)}
			result.Properties = map[string]string{"boundary": v.Boundary}
		}
		results = append(results, result)
	}

	for _, c := range r.Cycles {
		msg := fmt.Sprintf("Circular dependency between %s and %s", c.A, c.B)
		if len(c.Path) > 0 {
			msg += ": " + strings.Join(c.Path, " → ")
		}
		results = append(results, sarifResult{
			RuleID:    RuleIDCycle,
			Level:     "error",
			Message:   sarifMessage{Text: msg},
			Locations: []sarifLocation{moduleLocation(c.A), moduleLocation(c.B)},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "layercheck",
						Version: version.Version,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// buildSARIFRules returns only the rules that are relevant for the given findings.
func buildSARIFRules(r findings.Report) []sarifRule {
	rules := make([]sarifRule, 0, 3)
	if r.Summary.Upward > 0 {
		rules = append(rules, sarifRule{
			ID:               RuleIDUpward,
			Name:             "UpwardDependency",
			ShortDescription: sarifMessage{Text: "A module imports a module of a higher tier."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	if r.Summary.Breaches > 0 {
		rules = append(rules, sarifRule{
			ID:               RuleIDBreach,
			Name:             "EncapsulationBreach",
			ShortDescription: sarifMessage{Text: "A public module imports a module internal to the same boundary."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	if r.CycleCount > 0 {
		rules = append(rules, sarifRule{
			ID:               RuleIDCycle,
			Name:             "CircularDependency",
			ShortDescription: sarifMessage{Text: "Two directly linked modules reach each other."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	return rules
}

func moduleLocation(module string) sarifLocation {
	return sarifLocation{
		LogicalLocations: []sarifLogicalLocation{{FullyQualifiedName: module, Kind: "module"}},
	}
}

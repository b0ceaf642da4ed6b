package formats

import (
	"fmt"
	"layercheck/internal/engine/findings"
	"layercheck/internal/engine/layering"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true)

	violationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171"))

	breachStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A855F7"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// TextGenerator renders the terminal report. Without colour the output is
// plain text suitable for logs and pipes.
type TextGenerator struct {
	Color bool
	// ShowTiers includes the tier distribution section.
	ShowTiers bool
}

func (t TextGenerator) paint(style lipgloss.Style, s string) string {
	if !t.Color {
		return s
	}
	return style.Render(s)
}

func (t TextGenerator) Generate(r findings.Report) (string, error) {
	var b strings.Builder
	rule := strings.Repeat("=", 72)

	b.WriteString(rule + "\n")
	b.WriteString(t.paint(headerStyle, "ARCHITECTURE CONFORMANCE REPORT") + "\n")
	b.WriteString(rule + "\n\n")

	b.WriteString(t.paint(sectionStyle, "SUMMARY") + "\n")
	b.WriteString(fmt.Sprintf("  Modules analyzed:        %d\n", r.Summary.Modules))
	b.WriteString(fmt.Sprintf("  Edges analyzed:          %d\n", r.Summary.Edges))
	b.WriteString(fmt.Sprintf("  Upward dependencies:     %d\n", r.Summary.Upward))
	b.WriteString(fmt.Sprintf("  Encapsulation breaches:  %d\n", r.Summary.Breaches))
	b.WriteString(fmt.Sprintf("  Circular dependencies:   %d\n", r.CycleCount))
	if n := len(r.Summary.Unclassified); n > 0 {
		b.WriteString(fmt.Sprintf("  Unclassified modules:    %d\n", n))
	}
	if r.IsClean() {
		b.WriteString("  Status: " + t.paint(successStyle, "CLEAN") + "\n")
	} else {
		b.WriteString("  Status: " + t.paint(violationStyle, "VIOLATIONS FOUND") + "\n")
	}

	if t.ShowTiers && (len(r.Summary.Tiers) > 0 || len(r.Summary.Unclassified) > 0) {
		b.WriteString("\n" + t.paint(sectionStyle, "ARCHITECTURAL TIERS") + "\n")
		for _, grp := range r.Summary.Tiers {
			label := fmt.Sprintf("Tier %d", grp.Tier)
			if len(grp.Names) > 0 {
				label += " (" + strings.Join(grp.Names, ", ") + ")"
			}
			b.WriteString(fmt.Sprintf("  %s: %d modules\n", label, len(grp.Modules)))
			for _, m := range grp.Modules {
				b.WriteString("    " + m + "\n")
			}
		}
		if len(r.Summary.Unclassified) > 0 {
			b.WriteString(fmt.Sprintf("  Unclassified: %d modules\n", len(r.Summary.Unclassified)))
			for _, m := range r.Summary.Unclassified {
				b.WriteString("    " + t.paint(mutedStyle, m) + "\n")
			}
		}
	}

	if upward := r.ViolationsOf(layering.UpwardDependency); len(upward) > 0 {
		b.WriteString("\n" + t.paint(sectionStyle, fmt.Sprintf("UPWARD DEPENDENCIES (%d)", len(upward))) + "\n")
		for _, v := range upward {
			line := fmt.Sprintf("  ✗ %s (tier %d) -> %s (tier %d)", v.From, v.FromTier, v.To, v.ToTier)
			b.WriteString(t.paint(violationStyle, line) + "\n")
			b.WriteString(t.paint(mutedStyle, fmt.Sprintf("    %s must not import %s", v.FromPattern, v.ToPattern)) + "\n")
		}
	}

	if breaches := r.ViolationsOf(layering.EncapsulationBreach); len(breaches) > 0 {
		b.WriteString("\n" + t.paint(sectionStyle, fmt.Sprintf("ENCAPSULATION BREACHES (%d)", len(breaches))) + "\n")
		for _, v := range breaches {
			line := fmt.Sprintf("  ✗ %s -> %s [%s]", v.From, v.To, v.Boundary)
			b.WriteString(t.paint(breachStyle, line) + "\n")
		}
	}

	if len(r.Cycles) > 0 {
		b.WriteString("\n" + t.paint(sectionStyle, fmt.Sprintf("CIRCULAR DEPENDENCIES (%d)", len(r.Cycles))) + "\n")
		for _, c := range r.Cycles {
			b.WriteString(t.paint(violationStyle, fmt.Sprintf("  ↻ %s <-> %s", c.A, c.B)) + "\n")
			if len(c.Path) > 0 {
				b.WriteString(t.paint(mutedStyle, "    "+strings.Join(c.Path, " -> ")) + "\n")
			}
		}
	}

	return b.String(), nil
}

package formats

import (
	"fmt"
	"layercheck/internal/engine/findings"
	"strings"
)

// GenerateFindingsTSV writes one row per violation and per cycle pair.
func GenerateFindingsTSV(r findings.Report) (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tFrom\tFromTier\tTo\tToTier\tBoundary\tPath\n")
	for _, v := range r.Violations {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%s\t%d\t%s\t\n",
			v.Kind, v.From, v.FromTier, v.To, v.ToTier, v.Boundary))
	}
	for _, c := range r.Cycles {
		buf.WriteString(fmt.Sprintf("Cycle\t%s\t\t%s\t\t\t%s\n", c.A, c.B, strings.Join(c.Path, " -> ")))
	}

	return buf.String(), nil
}

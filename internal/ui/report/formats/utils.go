package formats

import (
	"strconv"
	"strings"
	"unicode"
)

// nodeIDs maps module names to unique DOT identifiers built from their
// letters and digits. A colliding id gets the first free "_N" suffix. Names
// must be sorted so the numbering is stable.
func nodeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]bool, len(names))
	for _, name := range names {
		base := identifier(name)
		id := base
		for n := 2; used[id]; n++ {
			id = base + "_" + strconv.Itoa(n)
		}
		used[id] = true
		ids[name] = id
	}
	return ids
}

func identifier(module string) string {
	id := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, module)
	if id == "" || unicode.IsDigit(rune(id[0])) {
		return "m_" + id
	}
	return id
}

// quoteDOT returns s as a double-quoted DOT string.
func quoteDOT(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s) + `"`
}

// Package narrate fills role abbreviations (m_c, r_c, r_c1, n_c:0 ...) in catalog text with names.
package narrate

import (
	"sort"
	"strings"
)

// Render replaces every role key in text with its name. Longer keys win, so r_c1 is not read as r_c.
func Render(text string, roles map[string]string) string {
	if len(roles) == 0 || text == "" {
		return text
	}
	keys := make([]string, 0, len(roles))
	for k := range roles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, roles[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

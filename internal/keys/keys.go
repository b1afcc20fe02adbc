package keys

import (
	"sort"
	"strings"
)

// Name produces the canonical lookup key for a catalog name: trimmed,
// lower-cased, inner whitespace collapsed to single underscores.
func Name(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}

// Set canonicalizes a list of names into a sorted, de-duplicated key list.
func Set(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		k := Name(n)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

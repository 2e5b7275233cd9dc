package hierarchy

import "strings"

// Erase strips generic type arguments from a type identifier, so that
// "java.util.List<java.lang.String>" becomes "java.util.List" and
// "example.com/cmp.Comparator[string]" becomes "example.com/cmp.Comparator".
// Nested and repeated argument groups are all removed.
func Erase(id string) string {
	id = strings.TrimSpace(id)
	if !strings.ContainsAny(id, "<[") {
		return id
	}

	var b strings.Builder
	b.Grow(len(id))
	depth := 0
	for _, r := range id {
		switch r {
		case '<', '[':
			depth++
		case '>', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

package naming

import "strings"

// Sanitize makes name safe to use as a single filename component on the
// current platform. Colons become " -", question marks are dropped, double
// quotes become single quotes, and any remaining character the platform
// rejects is removed. Whitespace runs collapse to one space and the result is
// trimmed. Sanitize is idempotent.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		switch {
		case r == ':':
			b.WriteString(" -")
		case r == '?':
		case r == '"':
			b.WriteByte('\'')
		case invalidNameRune(r):
		default:
			b.WriteRune(r)
		}
	}

	return collapseSpaces(b.String())
}

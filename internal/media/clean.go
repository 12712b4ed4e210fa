package media

import "strings"

var separatorReplacer = strings.NewReplacer(".", " ", "_", " ")

// CleanName normalizes a captured name or title: dots and underscores become
// spaces, whitespace runs collapse, and every word is title-cased using ASCII
// rules only. Blank input yields "".
func CleanName(name string) string {
	words := strings.Fields(separatorReplacer.Replace(name))
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// titleWord upper-cases the first byte and lower-cases the rest. Bytes outside
// ASCII are left alone, so multi-byte runes pass through intact.
func titleWord(w string) string {
	b := []byte(w)
	for i, c := range b {
		if i == 0 {
			if 'a' <= c && c <= 'z' {
				b[i] = c - ('a' - 'A')
			}
			continue
		}
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

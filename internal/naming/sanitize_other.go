//go:build !windows

package naming

func invalidNameRune(r rune) bool {
	return r == 0 || r == '/'
}

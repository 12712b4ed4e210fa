//go:build windows

package naming

import "strings"

const reservedNameChars = `<>:"/\|?*`

func invalidNameRune(r rune) bool {
	return r < 32 || strings.ContainsRune(reservedNameChars, r)
}

// Package naming renders classified media records into filenames using the
// brace-token pattern language ({n}, {s00e00}, {y}, ...).
package naming

import (
	"strconv"
	"strings"

	"github.com/dotnetappdev/renameit/internal/media"
)

// Render substitutes the tokens of pattern with values from rec and returns a
// sanitized filename ending in the record's extension. An empty pattern
// returns originalFileName untouched.
//
// Tokens are recognised in a single left-to-right scan, so replacement values
// are never themselves re-scanned for tokens. Unknown tokens are kept
// literally.
func Render(pattern string, rec media.Record, originalFileName, source string) string {
	if pattern == "" {
		return originalFileName
	}

	v := values{rec: rec, original: originalFileName, source: source}

	var b strings.Builder
	b.Grow(len(pattern) + 32)
	scan(pattern, func(literal string) {
		b.WriteString(literal)
	}, func(token string) bool {
		value, ok := v.resolve(token)
		if ok {
			b.WriteString(value)
		}
		return ok
	})

	result := Sanitize(collapseSpaces(b.String()))
	if ext := extension(rec); !strings.HasSuffix(result, ext) {
		result += ext
	}
	return result
}

// extension is the record's extension made safe for a filename. An
// extension left with nothing after the dot is dropped.
func extension(rec media.Record) string {
	ext := Sanitize(rec.Extension)
	if strings.Trim(ext, ".") == "" {
		return ""
	}
	return ext
}

// scan walks pattern and reports literal text and {token} names. When onToken
// returns false the braces and name are emitted as literal text instead.
func scan(pattern string, onLiteral func(string), onToken func(string) bool) {
	start := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			continue
		}
		end := strings.IndexByte(pattern[i+1:], '}')
		if end < 0 {
			break
		}
		name := pattern[i+1 : i+1+end]
		if strings.IndexByte(name, '{') >= 0 {
			continue
		}
		if start < i {
			onLiteral(pattern[start:i])
		}
		if !onToken(name) {
			onLiteral(pattern[i : i+end+2])
		}
		i += end + 1
		start = i + 1
	}
	if start < len(pattern) {
		onLiteral(pattern[start:])
	}
}

// values resolves token names for one render call.
type values struct {
	rec      media.Record
	original string
	source   string
}

func (v values) resolve(token string) (string, bool) {
	ep, _ := v.rec.Episode()
	mv, _ := v.rec.Movie()

	switch token {
	case "n":
		if name := v.rec.Name(); name != "" {
			return name, true
		}
		return "Unknown", true
	case "s":
		return strconv.Itoa(ep.Season), true
	case "e":
		return strconv.Itoa(ep.Number), true
	case "s00":
		return pad2(ep.Season), true
	case "e00":
		return pad2(ep.Number), true
	case "s00e00":
		return "S" + pad2(ep.Season) + "E" + pad2(ep.Number), true
	case "sxe":
		return strconv.Itoa(ep.Season) + "x" + pad2(ep.Number), true
	case "t":
		return ep.Title, true
	case "y":
		if mv.Year > 0 {
			return strconv.Itoa(mv.Year), true
		}
		return "", true
	case "ext":
		return strings.TrimLeft(v.rec.Extension, "."), true
	case "source":
		return v.source, true
	case "fn":
		base, _ := media.SplitExtension(v.original)
		return base, true
	default:
		return "", false
	}
}

// pad2 zero-pads n to at least two digits without truncating wider values.
func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 && n >= 0 {
		return "0" + s
	}
	return s
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

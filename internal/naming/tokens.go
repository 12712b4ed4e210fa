package naming

import (
	"fmt"
	"strings"
)

// Token documents one pattern token.
type Token struct {
	Name        string // without braces
	Description string
	Example     string
}

var tokens = []Token{
	{Name: "n", Description: "Show name for episodes, movie name for movies", Example: "Breaking Bad"},
	{Name: "s", Description: "Season number", Example: "1"},
	{Name: "e", Description: "Episode number", Example: "2"},
	{Name: "s00", Description: "Season number, two digits", Example: "01"},
	{Name: "e00", Description: "Episode number, two digits", Example: "02"},
	{Name: "s00e00", Description: "Season and episode", Example: "S01E02"},
	{Name: "sxe", Description: "Season and episode, compact", Example: "1x02"},
	{Name: "t", Description: "Episode title", Example: "Cat's in the Bag"},
	{Name: "y", Description: "Release year", Example: "1999"},
	{Name: "ext", Description: "File extension without the dot", Example: "mkv"},
	{Name: "source", Description: "Metadata source label", Example: "TheMovieDB"},
	{Name: "fn", Description: "Original filename without extension", Example: "breaking.bad.s01e02.720p"},
}

// Tokens returns the supported pattern tokens in documentation order.
func Tokens() []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out
}

// Validate reports every {token} in pattern that Render would not substitute.
func Validate(pattern string) error {
	var unknown []string
	scan(pattern, func(string) {}, func(name string) bool {
		if !isToken(name) {
			unknown = append(unknown, "{"+name+"}")
		}
		return true
	})
	if len(unknown) > 0 {
		return fmt.Errorf("unknown token(s): %s", strings.Join(unknown, ", "))
	}
	return nil
}

func isToken(name string) bool {
	for _, t := range tokens {
		if t.Name == name {
			return true
		}
	}
	return false
}

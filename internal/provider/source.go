// Package provider names the metadata sources a rename can be attributed to.
// The label only feeds the {source} token; no lookups are performed.
package provider

// MediaType represents the type of media content a source covers
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeEpisode MediaType = "episode"
)

// Source describes one known metadata source.
type Source struct {
	Name        string
	Description string
	Website     string
	MediaTypes  []MediaType
	Priority    int // higher = listed first
}

// Default is the source label used when none is given.
const Default = "TheMovieDB"

// Builtin returns the sources known out of the box.
func Builtin() []Source {
	return []Source{
		{
			Name:        "TheMovieDB",
			Description: "The Movie Database",
			Website:     "https://www.themoviedb.org",
			MediaTypes:  []MediaType{MediaTypeMovie, MediaTypeEpisode},
			Priority:    100,
		},
		{
			Name:        "TheTVDB",
			Description: "TheTVDB television database",
			Website:     "https://thetvdb.com",
			MediaTypes:  []MediaType{MediaTypeEpisode},
			Priority:    90,
		},
		{
			Name:        "TVMaze",
			Description: "TVmaze television guide",
			Website:     "https://www.tvmaze.com",
			MediaTypes:  []MediaType{MediaTypeEpisode},
			Priority:    80,
		},
	}
}

// Canonical resolves name against GlobalRegistry.
func Canonical(name string) string {
	return GlobalRegistry.Canonical(name)
}

// Supports reports whether s covers media type t.
func (s Source) Supports(t MediaType) bool {
	for _, mt := range s.MediaTypes {
		if mt == t {
			return true
		}
	}
	return false
}

package media

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Filename grammars, tried in this order against the whole base name.
var (
	// episodeRe matches the canonical episode form: Show.Name.S01E02.Title
	episodeRe = regexp.MustCompile(`(?i)^(.+?)[\s._-]+s?(\d{1,2})e(\d{2,3})(?:[\s._-]+(.+))?$`)

	// episodeAltRe matches the alternate episode form: Show Name - 1x02 - Title
	episodeAltRe = regexp.MustCompile(`(?i)^(.+?)[\s-]+(\d{1,2})x(\d{2})(?:[\s-]+(.+?))?$`)

	// movieYearRe matches a movie with a year and optional release tags: Movie.Name.2020.1080p.BluRay
	movieYearRe = regexp.MustCompile(`^(.+?)[\s._-]+(\d{4})(?:[\s._-]+.+)?$`)

	// videoRe matches video file extensions.
	videoRe = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|mpeg|mpg|m4v|3gp|vob|ts|mts|m2ts|rmvb|divx)$`)

	// subtitleRe matches subtitle file extensions.
	subtitleRe = regexp.MustCompile(`(?i)\.(srt|sub|idx|ass|ssa|smi|vtt|sbv|sami|usf|stl|dks|pjs|jss|psb|rt|scc|cap|sup|dfxp|ttml)$`)
)

// DefaultVideoExtensions are the extensions collected when no filter is given.
var DefaultVideoExtensions = []string{".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv", ".m4v", ".mpg", ".mpeg"}

// IsVideo reports whether filename has a recognized video extension.
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// IsSubtitle reports whether filename has a recognized subtitle extension.
func IsSubtitle(filename string) bool {
	return subtitleRe.MatchString(filename)
}

// Classify infers episode or movie metadata from fileName. It never fails:
// names that match no grammar become a Movie with the cleaned base name and
// no year.
func Classify(fileName string) Record {
	base, ext := SplitExtension(fileName)
	rec := Record{
		OriginalFileName: fileName,
		Extension:        ext,
	}

	if ep, ok := matchEpisode(episodeRe, base); ok {
		rec.Media = ep
		return rec
	}
	if ep, ok := matchEpisode(episodeAltRe, base); ok {
		rec.Media = ep
		return rec
	}
	if mv, ok := matchMovie(base); ok {
		rec.Media = mv
		return rec
	}

	rec.Media = Movie{Name: CleanName(base)}
	return rec
}

// SplitExtension splits the final path segment of fileName into its base
// name and extension. The extension keeps its leading dot; a trailing dot
// yields no extension.
func SplitExtension(fileName string) (base, ext string) {
	name := fileName
	if i := strings.LastIndexAny(name, "/"+string(os.PathSeparator)); i >= 0 {
		name = name[i+1:]
	}

	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return name, ""
	}
	if dot == len(name)-1 {
		return name[:dot], ""
	}
	return name[:dot], name[dot:]
}

func matchEpisode(re *regexp.Regexp, base string) (Episode, bool) {
	m := re.FindStringSubmatch(base)
	if m == nil {
		return Episode{}, false
	}

	season, err := strconv.Atoi(m[2])
	if err != nil {
		return Episode{}, false
	}
	number, err := strconv.Atoi(m[3])
	if err != nil {
		return Episode{}, false
	}

	return Episode{
		Show:   CleanName(m[1]),
		Season: season,
		Number: number,
		Title:  CleanName(m[4]),
	}, true
}

func matchMovie(base string) (Movie, bool) {
	m := movieYearRe.FindStringSubmatch(base)
	if m == nil {
		return Movie{}, false
	}

	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Movie{}, false
	}

	return Movie{Name: CleanName(m[1]), Year: year}, true
}

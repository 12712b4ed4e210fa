package naming

import (
	"strings"
	"testing"

	"github.com/dotnetappdev/renameit/internal/media"
)

func episode(show string, season, number int, title, ext string) media.Record {
	return media.Record{
		Extension: ext,
		Media:     media.Episode{Show: show, Season: season, Number: number, Title: title},
	}
}

func movie(name string, year int, ext string) media.Record {
	return media.Record{Extension: ext, Media: media.Movie{Name: name, Year: year}}
}

func TestRender(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		pattern  string
		rec      media.Record
		original string
		want     string
	}{
		{
			name:     "standard episode",
			pattern:  "{n} - {s00e00} - {t}",
			rec:      episode("Breaking Bad", 1, 2, "Cat's in the Bag", ".mkv"),
			original: "x.mkv",
			want:     "Breaking Bad - S01E02 - Cat's in the Bag.mkv",
		},
		{
			name:     "compact episode",
			pattern:  "{n} {sxe} {t}",
			rec:      episode("The Office", 2, 5, "Halloween", ".avi"),
			original: "original.avi",
			want:     "The Office 2x05 Halloween.avi",
		},
		{
			name:     "padded season and episode",
			pattern:  "{n} - Season {s00} Episode {e00} - {t}",
			rec:      episode("Friends", 1, 2, "The One with the Sonogram", ".mp4"),
			original: "original.mp4",
			want:     "Friends - Season 01 Episode 02 - The One with the Sonogram.mp4",
		},
		{
			name:     "plain season and episode",
			pattern:  "{n} - Season {s} Episode {e}",
			rec:      episode("Friends", 1, 2, "", ".mp4"),
			original: "original.mp4",
			want:     "Friends - Season 1 Episode 2.mp4",
		},
		{
			name:     "movie with year",
			pattern:  "{n} ({y})",
			rec:      movie("The Matrix", 1999, ".mkv"),
			original: "x.mkv",
			want:     "The Matrix (1999).mkv",
		},
		{
			name:     "movie without year drops the token",
			pattern:  "{n} {y}",
			rec:      movie("Home Video", 0, ".mp4"),
			original: "home_video.mp4",
			want:     "Home Video.mp4",
		},
		{
			name:     "extension token does not duplicate extension",
			pattern:  "{n}.{y}.{ext}",
			rec:      movie("Inception", 2010, ".mp4"),
			original: "original.mp4",
			want:     "Inception.2010.mp4",
		},
		{
			name:     "original filename token",
			pattern:  "{n} - {s00e00} - [{fn}]",
			rec:      episode("Breaking Bad", 1, 2, "", ".mkv"),
			original: "breaking.bad.s01e02.720p.mkv",
			want:     "Breaking Bad - S01E02 - [breaking.bad.s01e02.720p].mkv",
		},
		{
			name:     "source label",
			pattern:  "{n} [{source}]",
			rec:      movie("Heat", 1995, ".mkv"),
			original: "heat.mkv",
			want:     "Heat [TheMovieDB].mkv",
		},
		{
			name:     "three digit episode not truncated",
			pattern:  "{n} {s00e00}",
			rec:      episode("One Piece", 1, 100, "", ".mkv"),
			original: "x.mkv",
			want:     "One Piece S01E100.mkv",
		},
		{
			name:     "unknown name",
			pattern:  "{n}",
			rec:      episode("", 1, 1, "", ".mkv"),
			original: "x.mkv",
			want:     "Unknown.mkv",
		},
		{
			name:     "unknown tokens kept literally",
			pattern:  "{n} {foo} {n",
			rec:      movie("Heat", 1995, ".mkv"),
			original: "x.mkv",
			want:     "Heat {foo} {n.mkv",
		},
		{
			name:     "values are not rescanned",
			pattern:  "{t} {n}",
			rec:      episode("Show", 1, 1, "{n}", ".mkv"),
			original: "x.mkv",
			want:     "{n} Show.mkv",
		},
		{
			name:     "invalid characters sanitized",
			pattern:  "{n} - {s00e00} - {t}",
			rec:      episode("Test: Show?", 1, 1, "Title/Test \"Quoted\"", ".mkv"),
			original: "original.mkv",
			want:     "Test - Show - S01E01 - TitleTest 'Quoted'.mkv",
		},
		{
			name:     "whitespace collapsed",
			pattern:  "  {n}   -  {t}  ",
			rec:      episode("Show", 1, 1, "", ".mkv"),
			original: "x.mkv",
			want:     "Show -.mkv",
		},
		{
			name:     "no extension",
			pattern:  "{n} ({y})",
			rec:      movie("Alien", 1979, ""),
			original: "Alien 1979",
			want:     "Alien (1979)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.pattern, tt.rec, tt.original, "TheMovieDB")
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestRenderEmptyPatternReturnsOriginal(t *testing.T) {
	t.Parallel()
	rec := episode("Test Show", 0, 0, "", ".mkv")
	if got := Render("", rec, "original.mkv", "TheMovieDB"); got != "original.mkv" {
		t.Errorf("Render(\"\") = %q, want %q", got, "original.mkv")
	}
}

func TestRenderClassifiedNames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, pattern, want string
	}{
		{"Breaking.Bad.S01E02.Cat's.in.the.Bag.mkv", "{n} - {s00e00} - {t}", "Breaking Bad - S01E02 - Cat's In The Bag.mkv"},
		{"Friends - 1x02 - The One with the Sonogram.mp4", "{n} {sxe}", "Friends 1x02.mp4"},
		{"The.Matrix.1999.1080p.BluRay.mkv", "{n} ({y})", "The Matrix (1999).mkv"},
		{"Heat.1995.mk?v", "{n} ({y})", "Heat (1995).mkv"},
		{"Heat.1995.a:b", "{n} ({y})", "Heat (1995).a -b"},
		{`Heat.1995.x"y`, "{n} ({y})", "Heat (1995).x'y"},
		{"Heat.1995.?", "{n} ({y})", "Heat (1995)"},
	}
	for _, tc := range tests {
		got := Render(tc.pattern, media.Classify(tc.in), tc.in, "TheMovieDB")
		if got != tc.want {
			t.Errorf("Render(%q, Classify(%q)) = %q, want %q", tc.pattern, tc.in, got, tc.want)
		}
	}
}

func TestEveryDocumentedTokenResolves(t *testing.T) {
	t.Parallel()
	v := values{rec: episode("Show", 1, 2, "Pilot", ".mkv"), original: "show.mkv", source: "TVMaze"}
	for _, tok := range Tokens() {
		if _, ok := v.resolve(tok.Name); !ok {
			t.Errorf("token {%s} is documented but not resolved", tok.Name)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	if err := Validate("{n} - {s00e00} - {t} [{source}] {fn}.{ext}"); err != nil {
		t.Errorf("Validate(valid) = %v, want nil", err)
	}
	err := Validate("{n} {title} {season}")
	if err == nil {
		t.Fatal("Validate(unknown tokens) = nil, want error")
	}
	if !strings.Contains(err.Error(), "{title}") || !strings.Contains(err.Error(), "{season}") {
		t.Errorf("Validate error %q does not name both unknown tokens", err)
	}
}

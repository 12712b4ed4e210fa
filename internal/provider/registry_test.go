package provider

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(Source{Name: "AniDB", Priority: 10})
	if err != nil {
		t.Errorf("Register() error = %v, want nil", err)
	}

	// Duplicates are detected regardless of case
	err = registry.Register(Source{Name: "anidb"})
	if err == nil {
		t.Error("Register() expected error for duplicate, got nil")
	}

	err = registry.Register(Source{Name: "  "})
	if err == nil {
		t.Error("Register() expected error for blank name, got nil")
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry(Builtin()...)

	s, ok := registry.Get("  tvmaze ")
	if !ok {
		t.Fatal("Get(tvmaze) not found")
	}
	if s.Name != "TVMaze" {
		t.Errorf("Get(tvmaze).Name = %q, want %q", s.Name, "TVMaze")
	}

	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Get(nonexistent) found a source")
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct{ in, want string }{
		{"themoviedb", "TheMovieDB"},
		{"THETVDB", "TheTVDB"},
		{"TvMaze", "TVMaze"},
		{" MyDatabase ", "MyDatabase"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Canonical(tc.in); got != tc.want {
			t.Errorf("Canonical(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRegistry_Names(t *testing.T) {
	registry := NewRegistry(Builtin()...)
	registry.Register(Source{Name: "Zeta", Priority: 80})

	want := []string{"TheMovieDB", "TheTVDB", "TVMaze", "Zeta"}
	if diff := cmp.Diff(want, registry.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestSource_Supports(t *testing.T) {
	registry := NewRegistry(Builtin()...)
	tvdb, _ := registry.Get("TheTVDB")
	if tvdb.Supports(MediaTypeMovie) {
		t.Error("TheTVDB.Supports(movie) = true, want false")
	}
	if !tvdb.Supports(MediaTypeEpisode) {
		t.Error("TheTVDB.Supports(episode) = false, want true")
	}
}

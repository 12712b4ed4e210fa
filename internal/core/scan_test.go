package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(f), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("Rel: %v", err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestCollect(t *testing.T) {
	root := makeTree(t,
		"b.mkv",
		"a.MP4",
		"notes.txt",
		"a.mkv.backup",
		"Season 1/s01e01.mkv",
		"Season 1/extras/deep.avi",
		"Season 1/extras/deeper/deepest.mkv",
	)

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{
			name: "top level only",
			opts: ScanOptions{MaxDepth: -1},
			want: []string{"a.MP4", "b.mkv"},
		},
		{
			name: "recursive unlimited",
			opts: ScanOptions{Recursive: true, MaxDepth: -1},
			want: []string{
				"Season 1/extras/deep.avi",
				"Season 1/extras/deeper/deepest.mkv",
				"Season 1/s01e01.mkv",
				"a.MP4",
				"b.mkv",
			},
		},
		{
			name: "recursive depth 1",
			opts: ScanOptions{Recursive: true, MaxDepth: 1},
			want: []string{"Season 1/s01e01.mkv", "a.MP4", "b.mkv"},
		},
		{
			name: "recursive depth 0",
			opts: ScanOptions{Recursive: true, MaxDepth: 0},
			want: []string{"a.MP4", "b.mkv"},
		},
		{
			name: "extension filter",
			opts: ScanOptions{Recursive: true, MaxDepth: -1, Extensions: []string{".avi", ".TXT"}},
			want: []string{"Season 1/extras/deep.avi", "notes.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(context.Background(), root, tt.opts)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, rel(t, root, got)); diff != "" {
				t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectSingleFile(t *testing.T) {
	root := makeTree(t, "notes.txt")
	file := filepath.Join(root, "notes.txt")

	got, err := Collect(context.Background(), file, ScanOptions{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if diff := cmp.Diff([]string{file}, got); diff != "" {
		t.Errorf("Collect(file) mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectMissingInput(t *testing.T) {
	if _, err := Collect(context.Background(), filepath.Join(t.TempDir(), "nope"), ScanOptions{}); err == nil {
		t.Error("Collect() on missing input error = nil, want error")
	}
}

func TestDepth(t *testing.T) {
	root := filepath.FromSlash("/media")
	tests := []struct {
		path string
		want int
	}{
		{"/media", 0},
		{"/media/a", 1},
		{"/media/a/b", 2},
	}
	for _, tt := range tests {
		if got := depth(root, filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("depth(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}

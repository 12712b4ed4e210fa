package cmd

import (
	"errors"
	"testing"

	"github.com/dotnetappdev/renameit/internal/config"
	"github.com/dotnetappdev/renameit/internal/core"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func TestTablePadsByDisplayWidth(t *testing.T) {
	tbl := &table{headers: []string{"A", "B"}}
	tbl.add("日本", "x")
	tbl.add("abc", "yy")

	want := "A     B\n" +
		"日本  x\n" +
		"abc   yy\n"
	if diff := cmp.Diff(want, tbl.String()); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayTarget(t *testing.T) {
	same := core.Item{Source: "/tv/a.mkv", Target: "/tv/A.mkv"}
	moved := core.Item{Source: "/tv/a.mkv", Target: "/out/A.mkv"}

	if got := displayTarget(same); got != "A.mkv" {
		t.Errorf("displayTarget(same dir) = %q", got)
	}
	if got := displayTarget(moved); got != "/out/A.mkv" {
		t.Errorf("displayTarget(other dir) = %q", got)
	}
}

func TestPreviewRows(t *testing.T) {
	items := []core.Item{
		{Source: "a.mkv", Target: "A.mkv", Status: core.StatusPending},
		{Source: "b.mkv", Target: "B.mkv", Status: core.StatusConflict, Err: errors.New("taken")},
	}
	want := []previewRow{
		{Source: "a.mkv", Target: "A.mkv", Kind: "movie", Status: "pending"},
		{Source: "b.mkv", Target: "B.mkv", Kind: "movie", Status: "conflict", Message: "taken"},
	}
	if diff := cmp.Diff(want, previewRows(items)); diff != "" {
		t.Errorf("previewRows() mismatch (-want +got):\n%s", diff)
	}
}

func TestJobFlagsOverrideConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SkipExisting = true
	cfg.Recursive = true

	tests := []struct {
		name string
		args []string
		want job
	}{
		{
			name: "config only",
			want: job{Source: "TheMovieDB", Recursive: true, MaxDepth: -1, SkipExisting: true},
		},
		{
			name: "overwrite clears skip existing",
			args: []string{"--overwrite"},
			want: job{Source: "TheMovieDB", Recursive: true, MaxDepth: -1, Overwrite: true},
		},
		{
			name: "explicit false wins",
			args: []string{"--recursive=false", "--max-depth", "2", "-s", "tvmaze", "--filter", "mkv"},
			want: job{Source: "tvmaze", MaxDepth: 2, SkipExisting: true, Filter: "mkv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags jobFlags
			cmd := &cobra.Command{Use: "x"}
			flags.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}

			got := jobFromConfig(cfg)
			flags.apply(cmd, &got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("job mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

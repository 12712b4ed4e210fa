package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dotnetappdev/renameit/internal/log"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

type recorded struct {
	Type     log.OperationType
	Src, Dst string
	OK       bool
}

type fakeRecorder struct {
	ops []recorded
}

func (r *fakeRecorder) Record(opType log.OperationType, src, dst string, err error) {
	r.ops = append(r.ops, recorded{opType, filepath.ToSlash(src), filepath.ToSlash(dst), err == nil})
}

func planFor(t *testing.T, fs afero.Fs, opts Options, files ...string) *Plan {
	t.Helper()
	plan, err := NewPlanner(fs, 2).Plan(context.Background(), paths(files...), opts)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	return plan
}

func assertContent(t *testing.T, fs afero.Fs, path, want string) {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.FromSlash(path))
	if err != nil {
		t.Errorf("ReadFile(%s): %v", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("%s content = %q, want %q", path, data, want)
	}
}

func assertMissing(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	if ok, _ := afero.Exists(fs, filepath.FromSlash(path)); ok {
		t.Errorf("%s exists, want it gone", path)
	}
}

func TestApplier_RenameInPlace(t *testing.T) {
	fs := memFs(t, "/tv/show.s01e02.pilot.mkv", "/tv/Show - S01E03.mkv")
	rec := &fakeRecorder{}

	plan := planFor(t, fs, Options{Pattern: "{n} - {s00e00} - {t}"},
		"/tv/show.s01e02.pilot.mkv")
	summary, err := NewApplier(fs, rec).Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if diff := cmp.Diff(Summary{Renamed: 1}, summary); diff != "" {
		t.Errorf("Apply() summary mismatch (-want +got):\n%s", diff)
	}
	assertContent(t, fs, "/tv/Show - S01E02 - Pilot.mkv", "/tv/show.s01e02.pilot.mkv")
	assertMissing(t, fs, "/tv/show.s01e02.pilot.mkv")

	want := []recorded{{log.OpRename, "/tv/show.s01e02.pilot.mkv", "/tv/Show - S01E02 - Pilot.mkv", true}}
	if diff := cmp.Diff(want, rec.ops); diff != "" {
		t.Errorf("recorded ops mismatch (-want +got):\n%s", diff)
	}
}

func TestApplier_OutputDirCopies(t *testing.T) {
	fs := memFs(t, "/in/alien.1979.mkv")
	rec := &fakeRecorder{}

	plan := planFor(t, fs, Options{Pattern: "{n} ({y})", OutputDir: filepath.FromSlash("/out")}, "/in/alien.1979.mkv")
	summary, err := NewApplier(fs, rec).Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if summary.Copied != 1 {
		t.Errorf("Copied = %d, want 1", summary.Copied)
	}
	assertContent(t, fs, "/in/alien.1979.mkv", "/in/alien.1979.mkv")
	assertContent(t, fs, "/out/Alien (1979).mkv", "/in/alien.1979.mkv")

	want := []recorded{
		{log.OpCreateDir, "", "/out", true},
		{log.OpCopy, "/in/alien.1979.mkv", "/out/Alien (1979).mkv", true},
	}
	if diff := cmp.Diff(want, rec.ops); diff != "" {
		t.Errorf("recorded ops mismatch (-want +got):\n%s", diff)
	}
}

func TestApplier_Backup(t *testing.T) {
	tests := []struct {
		name       string
		backupDir  string
		backupPath string
	}{
		{"next to original", "", "/m/heat.1995.mkv.backup"},
		{"backup folder", "/bak", "/bak/heat.1995.mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFs(t, "/m/heat.1995.mkv")
			rec := &fakeRecorder{}

			plan := planFor(t, fs, Options{Pattern: "{n} ({y})", Backup: true, BackupDir: filepath.FromSlash(tt.backupDir)}, "/m/heat.1995.mkv")
			if _, err := NewApplier(fs, rec).Apply(context.Background(), plan); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}

			assertContent(t, fs, tt.backupPath, "/m/heat.1995.mkv")
			assertContent(t, fs, "/m/Heat (1995).mkv", "/m/heat.1995.mkv")

			var backups int
			for _, op := range rec.ops {
				if op.Type == log.OpBackup {
					backups++
					if op.Dst != tt.backupPath {
						t.Errorf("backup recorded to %s, want %s", op.Dst, tt.backupPath)
					}
				}
			}
			if backups != 1 {
				t.Errorf("recorded %d backups, want 1", backups)
			}
		})
	}
}

func TestApplier_SkipsNonPending(t *testing.T) {
	fs := memFs(t, "/m/heat.1995.mkv", "/m/Heat (1995).mkv", "/m/Alien (1979).mkv")
	rec := &fakeRecorder{}

	plan := planFor(t, fs, Options{Pattern: "{n} ({y})"}, "/m/heat.1995.mkv")
	summary, err := NewApplier(fs, rec).Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if summary.Conflicts != 1 || summary.OK() {
		t.Errorf("summary = %+v, want one conflict", summary)
	}
	if len(rec.ops) != 0 {
		t.Errorf("recorded %v, want nothing", rec.ops)
	}
	assertContent(t, fs, "/m/Heat (1995).mkv", "/m/Heat (1995).mkv")
}

func TestApplier_TargetAppearsAfterPlanning(t *testing.T) {
	fs := memFs(t, "/m/heat.1995.mkv")
	rec := &fakeRecorder{}

	plan := planFor(t, fs, Options{Pattern: "{n} ({y})"}, "/m/heat.1995.mkv")
	afero.WriteFile(fs, filepath.FromSlash("/m/Heat (1995).mkv"), []byte("late"), 0o644)

	summary, err := NewApplier(fs, rec).Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Conflicts != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want one conflict", summary)
	}
	if !errors.Is(plan.Items[0].Err, ErrTargetExists) {
		t.Errorf("item error = %v, want ErrTargetExists", plan.Items[0].Err)
	}
	assertContent(t, fs, "/m/Heat (1995).mkv", "late")
	if len(rec.ops) != 1 || rec.ops[0].OK {
		t.Errorf("recorded %v, want one failed rename", rec.ops)
	}
}

func TestApplier_TargetAppearsBeforeBackup(t *testing.T) {
	fs := memFs(t, "/m/heat.1995.mkv")
	rec := &fakeRecorder{}

	plan := planFor(t, fs, Options{Pattern: "{n} ({y})", Backup: true}, "/m/heat.1995.mkv")
	afero.WriteFile(fs, filepath.FromSlash("/m/Heat (1995).mkv"), []byte("late"), 0o644)

	summary, err := NewApplier(fs, rec).Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", summary.Conflicts)
	}
	assertMissing(t, fs, "/m/heat.1995.mkv.backup")
	assertContent(t, fs, "/m/heat.1995.mkv", "/m/heat.1995.mkv")
	for _, op := range rec.ops {
		if op.Type == log.OpBackup {
			t.Errorf("recorded backup %v, want none", op)
		}
	}
}

func TestApplier_CaseOnlyRenameKeepsOtherFile(t *testing.T) {
	// MemMapFs is case-sensitive, so both names are distinct files.
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, filepath.FromSlash("/d/the matrix (1999).mkv"), []byte("SRC"), 0o644)
	afero.WriteFile(fs, filepath.FromSlash("/d/The Matrix (1999).mkv"), []byte("OTHER"), 0o644)

	plan := planFor(t, fs, Options{Pattern: "{n}"}, "/d/the matrix (1999).mkv")
	if got := plan.Items[0].Status; got != StatusConflict {
		t.Fatalf("planned status = %s, want %s", got, StatusConflict)
	}

	// Force the item through to check the applier on its own.
	plan.Items[0].Status = StatusPending
	plan.Items[0].Err = nil
	summary, err := NewApplier(fs, nil).Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Renamed != 0 || summary.Conflicts != 1 {
		t.Errorf("summary = %+v, want one conflict and no renames", summary)
	}
	assertContent(t, fs, "/d/the matrix (1999).mkv", "SRC")
	assertContent(t, fs, "/d/The Matrix (1999).mkv", "OTHER")
}

func TestApplier_CaseOnlyRename(t *testing.T) {
	fs := memFs(t, "/d/the matrix (1999).mkv")

	plan := planFor(t, fs, Options{Pattern: "{n}"}, "/d/the matrix (1999).mkv")
	summary, err := NewApplier(fs, nil).Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Renamed != 1 {
		t.Errorf("summary = %+v, want one rename", summary)
	}
	assertContent(t, fs, "/d/The Matrix (1999).mkv", "/d/the matrix (1999).mkv")
	assertMissing(t, fs, "/d/the matrix (1999).mkv")
}

func TestApplier_Overwrite(t *testing.T) {
	fs := memFs(t, "/in/heat.1995.mkv", "/out/Heat (1995).mkv")

	plan := planFor(t, fs, Options{Pattern: "{n} ({y})", OutputDir: filepath.FromSlash("/out"), Overwrite: true}, "/in/heat.1995.mkv")
	summary, err := NewApplier(fs, nil).Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Copied != 1 {
		t.Errorf("Copied = %d, want 1", summary.Copied)
	}
	assertContent(t, fs, "/out/Heat (1995).mkv", "/in/heat.1995.mkv")
}

func TestApplier_Canceled(t *testing.T) {
	fs := memFs(t, "/m/heat.1995.mkv")
	plan := planFor(t, fs, Options{Pattern: "{n} ({y})"}, "/m/heat.1995.mkv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewApplier(fs, nil).Apply(ctx, plan); !errors.Is(err, context.Canceled) {
		t.Errorf("Apply() error = %v, want context.Canceled", err)
	}
	assertContent(t, fs, "/m/heat.1995.mkv", "/m/heat.1995.mkv")
}

func TestApplyThenUndo(t *testing.T) {
	fs := memFs(t, "/tv/show.s01e01.mkv", "/tv/show.s01e02.mkv")
	journal := log.NewJournal(fs, clockwork.NewFakeClock(), filepath.FromSlash("/logs"), true)
	if err := journal.StartSession("rename", nil); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	plan := planFor(t, fs, Options{Pattern: "{n} {s00e00}", Backup: true}, "/tv/show.s01e01.mkv", "/tv/show.s01e02.mkv")
	if _, err := NewApplier(fs, journal).Apply(context.Background(), plan); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	assertContent(t, fs, "/tv/Show S01E01.mkv", "/tv/show.s01e01.mkv")

	if _, err := journal.EndSession(); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	session, _, err := journal.FindSession("")
	if err != nil {
		t.Fatalf("FindSession() error = %v", err)
	}

	successful, failed, errs := log.UndoSession(fs, session)
	if successful != 4 || failed != 0 {
		t.Fatalf("UndoSession() = %d, %d, %v; want 4, 0", successful, failed, errs)
	}
	assertContent(t, fs, "/tv/show.s01e01.mkv", "/tv/show.s01e01.mkv")
	assertContent(t, fs, "/tv/show.s01e02.mkv", "/tv/show.s01e02.mkv")
	assertMissing(t, fs, "/tv/Show S01E01.mkv")
	assertMissing(t, fs, "/tv/show.s01e01.mkv.backup")
}

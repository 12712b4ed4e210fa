package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dotnetappdev/renameit/internal/log"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Recorder receives every filesystem operation the applier performs.
type Recorder interface {
	Record(opType log.OperationType, sourcePath, destPath string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Record(log.OperationType, string, string, error) {}

// Applier carries out the pending items of a plan.
type Applier struct {
	fs       afero.Fs
	recorder Recorder
	created  map[string]bool
}

// NewApplier constructs an applier. A nil recorder discards operations.
func NewApplier(fs afero.Fs, recorder Recorder) *Applier {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Applier{fs: fs, recorder: recorder, created: map[string]bool{}}
}

// Apply performs every pending item in order and updates its status in
// place. Items are processed sequentially so journal order matches disk
// order. Cancellation stops before the next item.
func (a *Applier) Apply(ctx context.Context, plan *Plan) (Summary, error) {
	opts := plan.Options

	if opts.OutputDir != "" {
		if err := a.ensureDir(opts.OutputDir); err != nil {
			return plan.Summary(), err
		}
	}
	if opts.Backup && opts.BackupDir != "" {
		if err := a.ensureDir(opts.BackupDir); err != nil {
			return plan.Summary(), err
		}
	}

	for i := range plan.Items {
		if err := ctx.Err(); err != nil {
			return plan.Summary(), err
		}

		it := &plan.Items[i]
		if it.Status != StatusPending {
			continue
		}

		if err := a.applyOne(it, opts); err != nil {
			it.Status = StatusFailed
			if errors.Is(err, ErrTargetExists) {
				it.Status = StatusConflict
			}
			it.Err = err
			zlog.Warn().Err(err).Str("source", it.Source).Msg("rename failed")
		}
	}
	return plan.Summary(), nil
}

func (a *Applier) applyOne(it *Item, opts Options) error {
	op := log.OpRename
	if opts.OutputDir != "" {
		op = log.OpCopy
	}
	// The target may have appeared since planning.
	if !opts.Overwrite && (opts.OutputDir != "" || !caseRename(a.fs, it.Source, it.Target)) {
		if _, err := a.fs.Stat(it.Target); err == nil {
			a.recorder.Record(op, it.Source, it.Target, ErrTargetExists)
			return ErrTargetExists
		}
	}

	if opts.Backup {
		backup := backupPath(it.Source, opts.BackupDir)
		err := copyFile(a.fs, it.Source, backup, true)
		a.recorder.Record(log.OpBackup, it.Source, backup, err)
		if err != nil {
			return fmt.Errorf("backup %s: %w", it.Source, err)
		}
	}

	if opts.OutputDir != "" {
		err := copyFile(a.fs, it.Source, it.Target, opts.Overwrite)
		a.recorder.Record(log.OpCopy, it.Source, it.Target, err)
		if err != nil {
			return err
		}
		it.Status = StatusCopied
		return nil
	}

	err := a.fs.Rename(it.Source, it.Target)
	a.recorder.Record(log.OpRename, it.Source, it.Target, err)
	if err != nil {
		return err
	}
	it.Status = StatusRenamed
	return nil
}

// ensureDir creates dir once per applier and journals the creation.
func (a *Applier) ensureDir(dir string) error {
	if a.created[dir] {
		return nil
	}
	if ok, _ := afero.DirExists(a.fs, dir); ok {
		a.created[dir] = true
		return nil
	}
	err := a.fs.MkdirAll(dir, 0o755)
	a.recorder.Record(log.OpCreateDir, "", dir, err)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	a.created[dir] = true
	return nil
}

func backupPath(source, backupDir string) string {
	if backupDir == "" {
		return source + ".backup"
	}
	return filepath.Join(backupDir, filepath.Base(source))
}

// copyFile copies src to dst, keeping the source mode. An existing dst is
// an error unless overwrite is set.
func copyFile(fs afero.Fs, src, dst string, overwrite bool) (err error) {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	out, err := fs.OpenFile(dst, flags, info.Mode().Perm())
	if err != nil {
		if os.IsExist(err) {
			return ErrTargetExists
		}
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dotnetappdev/renameit/internal/media"
	"github.com/dotnetappdev/renameit/internal/naming"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	// ErrTargetExists marks an item whose target is already taken on disk.
	ErrTargetExists = errors.New("destination already exists")
	// ErrDuplicateTarget marks an item that renders to the same target as
	// an earlier item of the plan.
	ErrDuplicateTarget = errors.New("another file renders to the same name")
)

// Status is the outcome of one planned item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRenamed   Status = "renamed"
	StatusCopied    Status = "copied"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusConflict  Status = "conflict"
	StatusFailed    Status = "failed"
)

// Options describe one rename run.
type Options struct {
	Pattern string
	Source  string
	// OutputDir switches from in-place moves to copies into this directory.
	OutputDir    string
	Overwrite    bool
	SkipExisting bool
	Backup       bool
	// BackupDir receives backups; empty places them next to the original
	// with a .backup suffix.
	BackupDir string
}

// Item is one file of a plan.
type Item struct {
	Source  string
	Target  string
	NewName string
	Record  media.Record
	Status  Status
	Err     error
}

// Plan is the ordered result of planning a set of files.
type Plan struct {
	Options Options
	Items   []Item
}

// Summary counts items by outcome.
type Summary struct {
	Pending   int
	Renamed   int
	Copied    int
	Unchanged int
	Skipped   int
	Conflicts int
	Failed    int
}

// Summary tallies the plan's items.
func (p *Plan) Summary() Summary {
	var s Summary
	for _, it := range p.Items {
		switch it.Status {
		case StatusPending:
			s.Pending++
		case StatusRenamed:
			s.Renamed++
		case StatusCopied:
			s.Copied++
		case StatusUnchanged:
			s.Unchanged++
		case StatusSkipped:
			s.Skipped++
		case StatusConflict:
			s.Conflicts++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// OK reports whether nothing conflicted or failed.
func (s Summary) OK() bool {
	return s.Conflicts == 0 && s.Failed == 0
}

// Planner classifies and renders files into a Plan. Classifications are
// memoized by file name and reused across calls.
type Planner struct {
	fs          afero.Fs
	workerCount int
	records     *csmap.CsMap[string, media.Record]
}

// NewPlanner constructs a planner checking targets against fs.
func NewPlanner(fs afero.Fs, workerCount int) *Planner {
	if workerCount <= 0 {
		workerCount = 8
	}
	return &Planner{
		fs:          fs,
		workerCount: workerCount,
		records:     csmap.Create[string, media.Record](),
	}
}

type planJob struct {
	index int
	path  string
}

type planResult struct {
	index int
	item  Item
}

// Plan renders every file and decides what applying it would do. Items keep
// the order of files.
func (p *Planner) Plan(ctx context.Context, files []string, opts Options) (*Plan, error) {
	plan := &Plan{Options: opts, Items: make([]Item, len(files))}
	if len(files) == 0 {
		return plan, nil
	}

	workerCount := min(p.workerCount, len(files))
	workCh := make(chan planJob)
	resultCh := make(chan planResult)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, opts, workCh, resultCh)
	}

	go func() {
		defer close(workCh)
		for i, path := range files {
			select {
			case workCh <- planJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		plan.Items[res.index] = res.item
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markDuplicates(plan.Items)
	return plan, nil
}

func (p *Planner) worker(ctx context.Context, wg *sync.WaitGroup, opts Options, workCh <-chan planJob, resultCh chan<- planResult) {
	defer wg.Done()

	for job := range workCh {
		item := p.planOne(job.path, opts)
		select {
		case resultCh <- planResult{index: job.index, item: item}:
		case <-ctx.Done():
			return
		}
	}
}

func (p *Planner) planOne(path string, opts Options) Item {
	name := filepath.Base(path)
	rec := p.classify(name)
	newName := naming.Render(opts.Pattern, rec, name, opts.Source)

	dir := filepath.Dir(path)
	if opts.OutputDir != "" {
		dir = opts.OutputDir
	}
	target := filepath.Join(dir, newName)

	item := Item{
		Source:  path,
		Target:  target,
		NewName: newName,
		Record:  rec,
		Status:  StatusPending,
	}

	if newName == "" {
		item.Status = StatusFailed
		item.Err = fmt.Errorf("pattern %q renders an empty name", opts.Pattern)
		return item
	}
	if filepath.Clean(target) == filepath.Clean(path) {
		item.Status = StatusUnchanged
		return item
	}

	// On case-insensitive filesystems the target of a case-only rename is
	// the source itself.
	if opts.OutputDir == "" && caseRename(p.fs, path, target) {
		return item
	}

	_, err := p.fs.Stat(target)
	switch {
	case err == nil:
		switch {
		case opts.SkipExisting:
			item.Status = StatusSkipped
		case !opts.Overwrite:
			item.Status = StatusConflict
			item.Err = ErrTargetExists
		}
	case !os.IsNotExist(err):
		item.Status = StatusFailed
		item.Err = fmt.Errorf("checking %s: %w", target, err)
	}

	zlog.Debug().Str("source", path).Str("target", target).Str("status", string(item.Status)).Msg("planned")
	return item
}

// caseRename reports whether target differs from source only in letter case
// and both paths resolve to the same file.
func caseRename(fs afero.Fs, source, target string) bool {
	if source == target || !strings.EqualFold(source, target) {
		return false
	}
	si, err := fs.Stat(source)
	if err != nil {
		return false
	}
	ti, err := fs.Stat(target)
	if err != nil {
		return false
	}
	return os.SameFile(si, ti)
}

func (p *Planner) classify(name string) media.Record {
	if rec, ok := p.records.Load(name); ok {
		return rec
	}
	rec := media.Classify(name)
	p.records.Store(name, rec)
	return rec
}

// markDuplicates turns every pending item whose target is already claimed,
// by an unchanged file or an earlier pending item, into a conflict.
func markDuplicates(items []Item) {
	claimed := make(map[string]bool, len(items))
	for _, it := range items {
		if it.Status == StatusUnchanged {
			claimed[filepath.Clean(it.Target)] = true
		}
	}
	for i := range items {
		it := &items[i]
		if it.Status != StatusPending {
			continue
		}
		key := filepath.Clean(it.Target)
		if claimed[key] {
			it.Status = StatusConflict
			it.Err = ErrDuplicateTarget
			continue
		}
		claimed[key] = true
	}
}

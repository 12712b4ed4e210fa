package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dotnetappdev/renameit/internal/config"
	"github.com/dotnetappdev/renameit/internal/core"
	"github.com/dotnetappdev/renameit/internal/provider"
	"github.com/dotnetappdev/renameit/internal/templates"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errNoFiles = errors.New("no files found")

// job is one rename run, built from the configuration and then overridden
// by flags or batch script keys.
type job struct {
	Input        string
	Pattern      string
	Template     string
	Source       string
	Output       string
	Filter       string
	Recursive    bool
	Backup       bool
	BackupDir    string
	MaxDepth     int
	Overwrite    bool
	SkipExisting bool
	DryRun       bool
}

func jobFromConfig(cfg *config.FormatConfig) job {
	return job{
		Source:       cfg.DefaultSource,
		Recursive:    cfg.Recursive,
		Backup:       cfg.Backup,
		BackupDir:    cfg.BackupFolder,
		MaxDepth:     cfg.MaxDepth,
		Overwrite:    cfg.Overwrite,
		SkipExisting: cfg.SkipExisting,
	}
}

// jobFlags binds the flags shared by rename and preview.
type jobFlags struct {
	source       string
	output       string
	filter       string
	template     string
	recursive    bool
	backup       bool
	maxDepth     int
	overwrite    bool
	skipExisting bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.source, "source", "s", "", "Metadata source label for {source}")
	fl.StringVarP(&f.output, "output", "o", "", "Copy renamed files into this directory instead of moving them")
	fl.StringVar(&f.filter, "filter", "", "Comma separated extensions to include (default: video files)")
	fl.StringVarP(&f.template, "template", "t", "", "Use a saved template (name or id) when no pattern is given")
	fl.BoolVarP(&f.recursive, "recursive", "r", false, "Include subdirectories")
	fl.IntVar(&f.maxDepth, "max-depth", -1, "Limit recursion depth (-1 for unlimited)")
	fl.BoolVar(&f.overwrite, "overwrite", false, "Replace files that already have the new name")
	fl.BoolVar(&f.skipExisting, "skip-existing", false, "Leave files alone when the new name is taken")
	cmd.MarkFlagsMutuallyExclusive("overwrite", "skip-existing")
}

// apply overrides j with every flag the user set.
func (f *jobFlags) apply(cmd *cobra.Command, j *job) {
	fl := cmd.Flags()
	if fl.Changed("source") {
		j.Source = f.source
	}
	if fl.Changed("output") {
		j.Output = f.output
	}
	if fl.Changed("filter") {
		j.Filter = f.filter
	}
	if fl.Changed("template") {
		j.Template = f.template
	}
	if fl.Changed("recursive") {
		j.Recursive = f.recursive
	}
	if fl.Changed("backup") {
		j.Backup = f.backup
	}
	if fl.Changed("max-depth") {
		j.MaxDepth = f.maxDepth
	}
	if fl.Changed("overwrite") {
		j.Overwrite = f.overwrite
		j.SkipExisting = j.SkipExisting && !f.overwrite
	}
	if fl.Changed("skip-existing") {
		j.SkipExisting = f.skipExisting
		j.Overwrite = j.Overwrite && !f.skipExisting
	}
}

// jobFromArgs builds the job for "<input> [pattern]" commands.
func (a *app) jobFromArgs(cmd *cobra.Command, args []string, flags *jobFlags) (job, error) {
	cfg, err := a.config()
	if err != nil {
		return job{}, err
	}
	j := jobFromConfig(cfg)
	j.Input = args[0]
	if len(args) > 1 {
		j.Pattern = args[1]
	}
	flags.apply(cmd, &j)
	return j, nil
}

// resolvePattern picks the explicit pattern, then the named template, then
// the configured default.
func (a *app) resolvePattern(ctx context.Context, j job) (string, error) {
	if j.Pattern != "" {
		return j.Pattern, nil
	}
	cfg, err := a.config()
	if err != nil {
		return "", err
	}
	if j.Template == "" {
		return cfg.DefaultPattern, nil
	}

	store, err := templates.Open(ctx, cfg.TemplatesPath(), a.clock)
	if err != nil {
		return "", err
	}
	defer store.Close()

	t, err := store.Resolve(ctx, j.Template)
	if err != nil {
		return "", err
	}
	return t.Pattern, nil
}

// plan collects the job's files and plans their new names.
func (a *app) plan(ctx context.Context, j job) (*core.Plan, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}

	pattern, err := a.resolvePattern(ctx, j)
	if err != nil {
		return nil, err
	}

	input, err := filepath.Abs(j.Input)
	if err != nil {
		return nil, err
	}
	output := j.Output
	if output != "" {
		if output, err = filepath.Abs(output); err != nil {
			return nil, err
		}
	}

	scan := core.ScanOptions{Recursive: j.Recursive, MaxDepth: j.MaxDepth, Extensions: cfg.Extensions}
	if j.Filter != "" {
		scan.Extensions = config.ParseExtensions(j.Filter)
	}
	files, err := core.Collect(ctx, input, scan)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errNoFiles
	}

	source := j.Source
	if source == "" {
		source = cfg.DefaultSource
	}
	zlog.Debug().Str("input", input).Int("files", len(files)).Str("pattern", pattern).Msg("planning")

	return core.NewPlanner(a.fs, cfg.WorkerCount).Plan(ctx, files, core.Options{
		Pattern:      pattern,
		Source:       provider.Canonical(source),
		OutputDir:    output,
		Overwrite:    j.Overwrite,
		SkipExisting: j.SkipExisting,
		Backup:       j.Backup,
		BackupDir:    j.BackupDir,
	})
}

// run plans and, unless dry-running, applies the job inside a journal
// session. Conflicts and failures are reported as an error.
func (a *app) run(ctx context.Context, j job, command string, args []string) (core.Summary, error) {
	plan, err := a.plan(ctx, j)
	if err != nil {
		if errors.Is(err, errNoFiles) {
			a.printf("No files found.\n")
		}
		return core.Summary{}, err
	}

	if j.DryRun {
		a.printItems(plan.Items, true)
		summary := plan.Summary()
		a.printSummary(summary, true)
		return summary, nil
	}

	if err := a.journal.StartSession(command, args); err != nil {
		return core.Summary{}, err
	}
	summary, applyErr := core.NewApplier(a.fs, a.journal).Apply(ctx, plan)
	path, err := a.journal.EndSession()
	if err != nil {
		zlog.Warn().Err(err).Msg("failed to write session journal")
	} else if path != "" {
		zlog.Debug().Str("journal", path).Msg("session saved")
	}
	if applyErr != nil {
		return summary, applyErr
	}

	a.printItems(plan.Items, false)
	a.printSummary(summary, false)

	if !summary.OK() {
		return summary, fmt.Errorf("%d conflict(s), %d failure(s)", summary.Conflicts, summary.Failed)
	}
	return summary, nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/dotnetappdev/renameit/internal/batch"
	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		dryRun          bool
		continueOnError bool
	)

	cmd := &cobra.Command{
		Use:   "batch <script>",
		Short: "Run the rename commands of a batch script",
		Long: `Run every section of an INI batch script as a rename command.

Each section accepts the keys input, pattern, template, source, output,
filter, recursive, backup and max_depth. Lines starting with #, ; or // are
comments. The run stops at the first failing command unless
--continue-on-error is given.`,
		Example: `  [shows]
  input = /media/tv
  pattern = {n} - {s00e00} - {t}
  recursive = true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			cmds, err := batch.Load(a.fs, args[0])
			if err != nil {
				return err
			}
			a.printf("Executing batch script: %s\n", args[0])
			a.printf("Found %d command(s).\n\n", len(cmds))

			res, err := batch.Run(cmd.Context(), cmds, continueOnError, func(ctx context.Context, i int, bc batch.Command) error {
				a.printf("%s\n", headerStyle.Render(fmt.Sprintf("--- Command %d/%d [%s] ---", i+1, len(cmds), bc.Name)))

				j := jobFromConfig(cfg)
				j.Input = bc.Input
				j.Pattern = bc.Pattern
				j.Template = bc.Template
				j.Output = bc.Output
				j.Filter = bc.Filter
				j.Recursive = bc.Recursive
				j.Backup = bc.Backup
				j.MaxDepth = bc.MaxDepth
				j.DryRun = dryRun
				if bc.Source != "" {
					j.Source = bc.Source
				}

				_, err := a.run(ctx, j, "batch", []string{args[0], bc.Name})
				if err != nil {
					a.printf("%s\n", errorStyle.Render("Error: "+err.Error()))
				}
				a.printf("\n")
				return err
			})
			if err != nil {
				return err
			}

			if res.Stopped {
				a.printf("Batch execution stopped due to error.\n")
				return fmt.Errorf("batch stopped at command %d of %d", res.Run, res.Total)
			}
			if res.Failed > 0 {
				a.printf("%s\n", warnStyle.Render(fmt.Sprintf("Batch script completed with %d error(s).", res.Failed)))
				return fmt.Errorf("%d of %d batch command(s) failed", res.Failed, res.Total)
			}
			a.printf("Batch script completed successfully.\n")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Show what each command would change")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Keep going after a command fails")
	return cmd
}

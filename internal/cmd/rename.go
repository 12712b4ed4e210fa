package cmd

import (
	"github.com/spf13/cobra"
)

func newRenameCmd(a *app) *cobra.Command {
	var (
		flags  jobFlags
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "rename <input> [pattern]",
		Short: "Rename media files with a pattern",
		Long: `Rename a file, or every media file in a directory, using a token pattern.

Without a pattern argument the --template is used, and without a template the
configured default pattern. Files are moved in place unless --output is given,
in which case renamed copies are written there. Every change is journaled so
it can be reversed with "renameit undo".`,
		Example: `  renameit rename ~/Downloads "{n} - {s00e00} - {t}" -r
  renameit rename movie.2019.1080p.mkv "{n} ({y})" --backup
  renameit rename ~/TV --template "TV Show - Compact" --dry-run`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.jobFromArgs(cmd, args, &flags)
			if err != nil {
				return err
			}
			j.DryRun = dryRun
			_, err = a.run(cmd.Context(), j, "rename", args)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&flags.backup, "backup", "b", false, "Copy each original before renaming it")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Show what would change without touching files")
	return cmd
}

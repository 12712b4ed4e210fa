package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotnetappdev/renameit/internal/core"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

// previewRow is one line of the CSV preview.
type previewRow struct {
	Source  string `csv:"source"`
	Target  string `csv:"target"`
	Kind    string `csv:"kind"`
	Status  string `csv:"status"`
	Message string `csv:"message"`
}

func previewRows(items []core.Item) []previewRow {
	rows := make([]previewRow, len(items))
	for i, it := range items {
		rows[i] = previewRow{
			Source: it.Source,
			Target: it.Target,
			Kind:   string(it.Record.Kind()),
			Status: string(it.Status),
		}
		if it.Err != nil {
			rows[i].Message = it.Err.Error()
		}
	}
	return rows
}

func newPreviewCmd(a *app) *cobra.Command {
	var (
		flags  jobFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "preview <input> [pattern]",
		Short: "Show the new names without renaming",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "csv" {
				return fmt.Errorf("unknown format %q (use table or csv)", format)
			}

			j, err := a.jobFromArgs(cmd, args, &flags)
			if err != nil {
				return err
			}
			plan, err := a.plan(cmd.Context(), j)
			if err != nil {
				if errors.Is(err, errNoFiles) {
					a.printf("No files found.\n")
				}
				return err
			}

			if format == "csv" {
				return gocsv.Marshal(previewRows(plan.Items), a.stdout)
			}

			t := &table{headers: []string{"FILE", "NEW NAME", "KIND", "STATUS"}}
			for _, it := range plan.Items {
				t.add(filepath.Base(it.Source), displayTarget(it), string(it.Record.Kind()), statusLabel(it.Status, true))
			}
			t.style = func(row, col int) lipgloss.Style {
				if col == 3 {
					return statusStyle(plan.Items[row].Status)
				}
				return lipgloss.NewStyle()
			}
			a.printf("%s", t)
			a.printSummary(plan.Summary(), true)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or csv")
	return cmd
}

package cmd

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotnetappdev/renameit/internal/media"
	"github.com/dotnetappdev/renameit/internal/naming"
	"github.com/dotnetappdev/renameit/internal/provider"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		pattern string
		source  string
	)

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Show how file names are recognised",
		Long: `Print what renameit reads from each file name: episode or movie, the name,
season, episode, title and year. With --pattern the rendered new name is shown
as well. Only the names are inspected; the files need not exist.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pattern != "" {
				if err := naming.Validate(pattern); err != nil {
					return err
				}
			}

			headers := []string{"FILE", "KIND", "NAME", "SEASON", "EPISODE", "TITLE", "YEAR"}
			if pattern != "" {
				headers = append(headers, "NEW NAME")
			}
			t := &table{headers: headers}

			for _, arg := range args {
				rec := media.Classify(arg)
				row := []string{rec.OriginalFileName, string(rec.Kind()), rec.Name(), "", "", "", ""}
				if ep, ok := rec.Episode(); ok {
					row[3] = strconv.Itoa(ep.Season)
					row[4] = strconv.Itoa(ep.Number)
					row[5] = ep.Title
				}
				if mv, ok := rec.Movie(); ok && mv.Year > 0 {
					row[6] = strconv.Itoa(mv.Year)
				}
				if pattern != "" {
					row = append(row, naming.Render(pattern, rec, rec.OriginalFileName, provider.Canonical(source)))
				}
				t.add(row...)
			}
			t.style = func(row, col int) lipgloss.Style {
				if col == 1 {
					return accentStyle
				}
				return lipgloss.NewStyle()
			}

			a.printf("%s", t)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Also render each name with this pattern")
	cmd.Flags().StringVarP(&source, "source", "s", provider.Default, "Metadata source label for {source}")
	return cmd
}

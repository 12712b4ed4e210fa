package cmd

import (
	"strings"

	"github.com/dotnetappdev/renameit/internal/provider"
	"github.com/spf13/cobra"
)

func newSourcesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the known metadata source labels",
		Long: `List the source labels renameit knows. --source accepts these in any case;
other labels are used exactly as written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &table{headers: []string{"SOURCE", "COVERS", "WEBSITE"}}
			for _, s := range provider.GlobalRegistry.List() {
				covers := make([]string, len(s.MediaTypes))
				for i, mt := range s.MediaTypes {
					covers[i] = string(mt)
				}
				name := s.Name
				if name == provider.Default {
					name += " (default)"
				}
				t.add(name, strings.Join(covers, ", "), s.Website)
			}
			a.printf("%s", t)
			return nil
		},
	}
}

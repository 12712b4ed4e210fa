package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dotnetappdev/renameit/internal/naming"
	"github.com/spf13/cobra"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "List the tokens a pattern can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &table{headers: []string{"TOKEN", "DESCRIPTION", "EXAMPLE"}}
			for _, tok := range naming.Tokens() {
				t.add("{"+tok.Name+"}", tok.Description, tok.Example)
			}
			t.style = func(_, col int) lipgloss.Style {
				switch col {
				case 0:
					return accentStyle
				case 2:
					return mutedStyle
				}
				return lipgloss.NewStyle()
			}
			a.printf("%s", t)
			a.printf("\nText outside braces is kept as written. Unknown tokens are left as is.\n")
			return nil
		},
	}
}

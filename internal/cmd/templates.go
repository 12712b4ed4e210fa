package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotnetappdev/renameit/internal/templates"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func (a *app) openTemplates(ctx context.Context) (*templates.Store, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return templates.Open(ctx, cfg.TemplatesPath(), a.clock)
}

// withTemplates opens the store around fn.
func (a *app) withTemplates(ctx context.Context, fn func(*templates.Store) error) error {
	store, err := a.openTemplates(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Manage saved rename patterns",
		Long: `Saved templates give a pattern a name. Use one with
"renameit rename <input> --template <name or id>".`,
	}

	cmd.AddCommand(
		newTemplatesListCmd(a),
		newTemplatesAddCmd(a),
		newTemplatesUpdateCmd(a),
		newTemplatesRemoveCmd(a),
		newTemplatesSeedCmd(a),
		newTemplatesExportCmd(a),
		newTemplatesImportCmd(a),
	)
	return cmd
}

func newTemplatesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemplates(cmd.Context(), func(s *templates.Store) error {
				list, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					a.printf("No templates saved. Run \"renameit templates seed\" to add the defaults.\n")
					return nil
				}

				t := &table{headers: []string{"ID", "NAME", "PATTERN", "DESCRIPTION"}}
				for _, tmpl := range list {
					t.add(strconv.FormatInt(tmpl.ID, 10), tmpl.Name, tmpl.Pattern, tmpl.Description)
				}
				t.style = func(_, col int) lipgloss.Style {
					switch col {
					case 0, 3:
						return mutedStyle
					case 2:
						return accentStyle
					}
					return lipgloss.NewStyle()
				}
				a.printf("%s", t)
				return nil
			})
		},
	}
}

func newTemplatesAddCmd(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name> <pattern>",
		Short: "Save a new template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemplates(cmd.Context(), func(s *templates.Store) error {
				tmpl := templates.Template{Name: args[0], Pattern: args[1], Description: description}
				if err := s.Add(cmd.Context(), &tmpl); err != nil {
					return err
				}
				a.printf("Added template %d: %s\n", tmpl.ID, tmpl.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Describe the template")
	return cmd
}

func newTemplatesUpdateCmd(a *app) *cobra.Command {
	var name, pattern, description string

	cmd := &cobra.Command{
		Use:   "update <id or name>",
		Short: "Change a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			if !fl.Changed("name") && !fl.Changed("pattern") && !fl.Changed("description") {
				return fmt.Errorf("nothing to update: set --name, --pattern or --description")
			}

			return a.withTemplates(cmd.Context(), func(s *templates.Store) error {
				tmpl, err := s.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if fl.Changed("name") {
					tmpl.Name = name
				}
				if fl.Changed("pattern") {
					tmpl.Pattern = pattern
				}
				if fl.Changed("description") {
					tmpl.Description = description
				}
				if err := s.Update(cmd.Context(), &tmpl); err != nil {
					return err
				}
				a.printf("Updated template %d: %s\n", tmpl.ID, tmpl.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "New pattern")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func newTemplatesRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id or name>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a saved template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemplates(cmd.Context(), func(s *templates.Store) error {
				tmpl, err := s.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := s.Delete(cmd.Context(), tmpl.ID); err != nil {
					return err
				}
				a.printf("Removed template %d: %s\n", tmpl.ID, tmpl.Name)
				return nil
			})
		},
	}
}

func newTemplatesSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the default templates to an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemplates(cmd.Context(), func(s *templates.Store) error {
				n, err := s.SeedDefaults(cmd.Context())
				if err != nil {
					return err
				}
				if n == 0 {
					a.printf("Templates already exist; nothing seeded.\n")
					return nil
				}
				a.printf("Seeded %d default template(s).\n", n)
				return nil
			})
		},
	}
}

func newTemplatesExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all templates as YAML",
		Long:  "Write all templates as YAML to file, or to standard output when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemplates(cmd.Context(), func(s *templates.Store) error {
				if len(args) == 0 {
					return s.Export(cmd.Context(), a.stdout)
				}

				f, err := a.fs.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				if err := s.Export(cmd.Context(), f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				a.printf("Exported templates to %s\n", args[0])
				return nil
			})
		},
	}
}

func newTemplatesImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add or update templates from a YAML file",
		Long:  "Read templates from a YAML file written by export. Templates are matched by name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := afero.Exists(a.fs, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("file not found: %s", args[0])
			}

			f, err := a.fs.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return a.withTemplates(cmd.Context(), func(s *templates.Store) error {
				added, updated, err := s.Import(cmd.Context(), f)
				if err != nil {
					return err
				}
				a.printf("Imported templates: %d added, %d updated.\n", added, updated)
				return nil
			})
		},
	}
}

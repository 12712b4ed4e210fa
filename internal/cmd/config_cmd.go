package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotnetappdev/renameit/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
	}
	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigPathCmd(a),
		newConfigInitCmd(a),
		newConfigGetCmd(a),
		newConfigSetCmd(a),
	)
	return cmd
}

// loadedConfig wraps a load failure with a hint on how to recover.
func (a *app) loadedConfig() (*config.FormatConfig, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, fmt.Errorf("%w (fix the file or run \"renameit config init --force\")", err)
	}
	return cfg, nil
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadedConfig()
			if err != nil {
				return err
			}

			t := &table{headers: []string{"KEY", "VALUE"}}
			for _, key := range config.Keys() {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				t.add(key, value)
			}
			t.style = func(_, col int) lipgloss.Style {
				if col == 0 {
					return accentStyle
				}
				return lipgloss.NewStyle()
			}
			a.printf("%s", t)
			return nil
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.stdout, config.ConfigPath())
			return nil
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigPath()
			if exists, _ := afero.Exists(a.fs, path); exists && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", path)
			}
			if err := config.DefaultConfig().Save(); err != nil {
				return err
			}
			a.printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing file")
	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadedConfig()
			if err != nil {
				return err
			}
			value, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, value)
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save",
		Long: `Change one setting and save the configuration file.

Keys: ` + fmt.Sprint(config.Keys()),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadedConfig()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			value, _ := cfg.Get(args[0])
			a.printf("%s = %s\n", args[0], value)
			return nil
		},
	}
}

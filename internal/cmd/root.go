package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/dotnetappdev/renameit/internal/config"
	"github.com/dotnetappdev/renameit/internal/log"
	"github.com/jonboulle/clockwork"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app carries what every command needs. Commands read it after the root's
// PersistentPreRunE has loaded the configuration.
type app struct {
	fs     afero.Fs
	clock  clockwork.Clock
	stdout io.Writer
	stderr io.Writer

	verbose    bool
	quiet      bool
	configPath string

	cfg     *config.FormatConfig
	cfgErr  error
	journal *log.Journal
}

func newApp() *app {
	return &app{
		fs:     afero.NewOsFs(),
		clock:  clockwork.NewRealClock(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// config returns the loaded configuration or the error that loading hit.
func (a *app) config() (*config.FormatConfig, error) {
	return a.cfg, a.cfgErr
}

// logDir is where session journals and the diagnostic log live.
func logDir() string {
	return filepath.Join(config.DataDir(), "logs")
}

func (a *app) setup(cmd *cobra.Command) error {
	a.stdout = cmd.OutOrStdout()
	a.stderr = cmd.ErrOrStderr()
	config.SetPath(a.configPath)

	a.cfg, a.cfgErr = config.Load()
	enabled := a.cfgErr == nil && a.cfg.EnableLogging

	dir := ""
	if enabled {
		dir = logDir()
	}
	if err := log.Setup(a.stderr, a.verbose, dir); err != nil {
		return err
	}

	a.journal = log.NewJournal(a.fs, a.clock, logDir(), enabled)
	if enabled {
		if err := a.journal.Cleanup(a.cfg.LogRetentionDays); err != nil {
			zlog.Warn().Err(err).Msg("failed to clean up old sessions")
		}
	}
	zlog.Debug().Str("config", config.ConfigPath()).Bool("journal", enabled).Msg("starting")
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Rename media files from their names",
		Long: `renameit recognises TV episodes and movies from their file names and renames
them with a token pattern such as "{n} - {s00e00} - {t}".

Run "renameit tokens" to list the pattern tokens and "renameit templates" to
manage saved patterns.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show debug output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Only print errors")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Use this configuration file")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		newRenameCmd(a),
		newPreviewCmd(a),
		newBatchCmd(a),
		newParseCmd(a),
		newTokensCmd(a),
		newSourcesCmd(a),
		newTemplatesCmd(a),
		newConfigCmd(a),
		newUndoCmd(a),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotnetappdev/renameit/internal/log"
	"github.com/spf13/cobra"
)

func newUndoCmd(a *app) *cobra.Command {
	var (
		list      bool
		limit     int
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo a previous rename session",
		Long: `Reverse the operations of a journaled rename session, newest first.

Without --session the most recent session that has not been undone is used.
Renames are moved back, copies and backups are removed and directories
created by the session are removed when empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.journal.Enabled() {
				return errors.New("session logging is disabled (set enable_logging to true)")
			}
			if list {
				return a.listSessions(limit)
			}

			session, path, err := a.journal.FindSession(sessionID)
			if errors.Is(err, log.ErrNoSession) && sessionID == "" {
				a.printf("No operation sessions found to undo.\n")
				return nil
			}
			if err != nil {
				return err
			}
			if session.Metadata.UndoneAt != nil {
				return fmt.Errorf("session %s was already undone", shortID(session.Metadata.SessionID))
			}

			successful, failed, errs := log.UndoSession(a.fs, session)
			for _, err := range errs {
				a.printf("%s\n", errorStyle.Render("Error: "+err.Error()))
			}
			a.printf("Undid %d operation(s) of session %s.\n", successful, shortID(session.Metadata.SessionID))

			if err := a.journal.MarkUndone(path); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d operation(s) could not be undone", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List recent sessions instead of undoing")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of sessions to list (0 for all)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Undo the session whose ID starts with this")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *app) listSessions(limit int) error {
	summaries, err := a.journal.Summaries(limit)
	if err != nil {
		return fmt.Errorf("failed to read log sessions: %w", err)
	}
	if len(summaries) == 0 {
		a.printf("No operation sessions found.\n")
		return nil
	}

	t := &table{headers: []string{"SESSION", "WHEN", "COMMAND", "OPS", "FAILED", "STATE"}}
	for _, s := range summaries {
		md := s.Session.Metadata
		command := ""
		if len(md.CommandArgs) > 0 {
			command = md.CommandArgs[0]
		}
		state := "done"
		if md.UndoneAt != nil {
			state = "undone"
		}
		t.add(shortID(md.SessionID), s.RelativeTime, command, strconv.Itoa(md.TotalOps), strconv.Itoa(md.FailedOps), state)
	}
	t.style = func(row, col int) lipgloss.Style {
		switch {
		case col == 0:
			return accentStyle
		case col == 5 && summaries[row].Session.Metadata.UndoneAt != nil:
			return mutedStyle
		case col == 4 && summaries[row].Session.Metadata.FailedOps > 0:
			return errorStyle
		}
		return lipgloss.NewStyle()
	}
	a.printf("%s", t)
	return nil
}

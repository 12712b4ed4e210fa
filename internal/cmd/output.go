package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotnetappdev/renameit/internal/core"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3a6b4a"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ba8c0"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8fc279"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5dc796"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5c07b"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f04c56"))
)

func statusStyle(s core.Status) lipgloss.Style {
	switch s {
	case core.StatusRenamed, core.StatusCopied:
		return successStyle
	case core.StatusPending:
		return accentStyle
	case core.StatusSkipped, core.StatusConflict:
		return warnStyle
	case core.StatusFailed:
		return errorStyle
	default:
		return mutedStyle
	}
}

// printf writes normal output unless --quiet is set.
func (a *app) printf(format string, args ...any) {
	if a.quiet {
		return
	}
	fmt.Fprintf(a.stdout, format, args...)
}

// displayTarget shows the new base name, or the full path when the file
// moves to another directory.
func displayTarget(it core.Item) string {
	if filepath.Dir(it.Source) != filepath.Dir(it.Target) {
		return it.Target
	}
	return filepath.Base(it.Target)
}

func statusLabel(s core.Status, dryRun bool) string {
	if dryRun && s == core.StatusPending {
		return "would rename"
	}
	return string(s)
}

// printItems lists every item that was or would be touched. Unchanged files
// are only listed with --verbose.
func (a *app) printItems(items []core.Item, dryRun bool) {
	width := 0
	for _, it := range items {
		width = max(width, runewidth.StringWidth(statusLabel(it.Status, dryRun)))
	}

	for _, it := range items {
		if it.Status == core.StatusUnchanged && !a.verbose {
			continue
		}
		label := statusStyle(it.Status).Render(runewidth.FillRight(statusLabel(it.Status, dryRun), width))
		line := fmt.Sprintf("%s  %s → %s", label, filepath.Base(it.Source), displayTarget(it))
		if it.Err != nil {
			line += mutedStyle.Render(": " + it.Err.Error())
		}
		a.printf("%s\n", line)
	}
}

func (a *app) printSummary(s core.Summary, dryRun bool) {
	var parts []string
	add := func(n int, what string, style lipgloss.Style) {
		if n > 0 {
			parts = append(parts, style.Render(fmt.Sprintf("%d %s", n, what)))
		}
	}
	if dryRun {
		add(s.Pending, "to rename", accentStyle)
	}
	add(s.Renamed, "renamed", successStyle)
	add(s.Copied, "copied", successStyle)
	add(s.Unchanged, "unchanged", mutedStyle)
	add(s.Skipped, "skipped", warnStyle)
	add(s.Conflicts, "conflicts", warnStyle)
	add(s.Failed, "failed", errorStyle)

	if len(parts) == 0 {
		parts = append(parts, mutedStyle.Render("nothing to do"))
	}
	a.printf("\n%s\n", strings.Join(parts, ", "))
}

// table renders rows under headers with columns padded to their widest
// cell. style, when set, colours a cell after padding.
type table struct {
	headers []string
	rows    [][]string
	style   func(row, col int) lipgloss.Style
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) String() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, cellStyle func(col int) lipgloss.Style) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			padded := cell
			if i < len(cells)-1 {
				padded = runewidth.FillRight(cell, widths[i])
			}
			b.WriteString(cellStyle(i).Render(padded))
		}
		b.WriteString("\n")
	}

	writeRow(t.headers, func(int) lipgloss.Style { return headerStyle })
	for r, row := range t.rows {
		writeRow(row, func(col int) lipgloss.Style {
			if t.style == nil {
				return lipgloss.NewStyle()
			}
			return t.style(r, col)
		})
	}
	return b.String()
}

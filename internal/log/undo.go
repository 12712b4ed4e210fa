package log

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
)

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

// UndoOperation reverses a single journaled operation on fs.
func UndoOperation(fs afero.Fs, op OperationLog) UndoResult {
	result := UndoResult{
		Operation: op,
		Success:   false,
	}

	switch op.Type {
	case OpRename:
		// Move the renamed file back to its original path
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo rename: destination path missing")
			return result
		}

		if _, err := fs.Stat(op.DestPath); os.IsNotExist(err) {
			result.Error = fmt.Errorf("cannot undo rename: file %s not found", op.DestPath)
			return result
		}

		if _, err := fs.Stat(op.SourcePath); err == nil {
			result.Error = fmt.Errorf("cannot undo rename: original path %s already exists", op.SourcePath)
			return result
		}

		if err := fs.Rename(op.DestPath, op.SourcePath); err != nil {
			result.Error = fmt.Errorf("failed to rename %s back to %s: %w", op.DestPath, op.SourcePath, err)
			return result
		}

		result.Success = true

	case OpCopy, OpBackup:
		// Remove the copy; the source was never touched
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo %s: destination path missing", op.Type)
			return result
		}

		info, err := fs.Stat(op.DestPath)
		if os.IsNotExist(err) {
			result.Success = true
			return result
		}
		if err != nil {
			result.Error = fmt.Errorf("failed to stat %s: %w", op.DestPath, err)
			return result
		}
		if info.IsDir() {
			result.Error = fmt.Errorf("cannot undo %s: %s is a directory", op.Type, op.DestPath)
			return result
		}

		if err := fs.Remove(op.DestPath); err != nil {
			result.Error = fmt.Errorf("failed to remove %s: %w", op.DestPath, err)
			return result
		}

		result.Success = true

	case OpCreateDir:
		// Remove the directory if it is still empty
		if op.DestPath == "" && op.SourcePath != "" {
			op.DestPath = op.SourcePath
		}

		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo directory creation: path missing")
			return result
		}

		info, err := fs.Stat(op.DestPath)
		if os.IsNotExist(err) {
			result.Success = true
			return result
		}
		if err != nil {
			result.Error = fmt.Errorf("failed to stat %s: %w", op.DestPath, err)
			return result
		}

		if !info.IsDir() {
			result.Error = fmt.Errorf("path %s is not a directory", op.DestPath)
			return result
		}

		empty, err := afero.IsEmpty(fs, op.DestPath)
		if err != nil {
			result.Error = fmt.Errorf("failed to read directory %s: %w", op.DestPath, err)
			return result
		}
		if !empty {
			result.Error = fmt.Errorf("cannot remove directory %s: not empty", op.DestPath)
			return result
		}

		if err := fs.Remove(op.DestPath); err != nil {
			result.Error = fmt.Errorf("failed to remove directory %s: %w", op.DestPath, err)
			return result
		}

		result.Success = true

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return result
}

// UndoSession reverses the session's successful operations, newest first.
func UndoSession(fs afero.Fs, session *LogSession) (successful int, failed int, errors []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]

		if !op.Success {
			continue
		}

		result := UndoOperation(fs, op)
		if result.Success {
			successful++
		} else {
			failed++
			if result.Error != nil {
				errors = append(errors, result.Error)
			}
		}
	}

	return successful, failed, errors
}

func formatRelativeTime(now, t time.Time) string {
	duration := now.Sub(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

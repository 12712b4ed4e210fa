// Package log keeps the per-run journal of filesystem operations that backs
// undo, and configures the diagnostic logger.
package log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type OperationType string

const (
	OpRename    OperationType = "rename"
	OpCopy      OperationType = "copy"
	OpBackup    OperationType = "backup"
	OpCreateDir OperationType = "create_dir"
)

// ErrNoSession is returned when no journal matches a lookup.
var ErrNoSession = errors.New("no matching session")

type OperationLog struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Type       OperationType `json:"type"`
	SourcePath string        `json:"source_path"`
	DestPath   string        `json:"dest_path,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs   []string   `json:"command_args"`
	WorkingDir    string     `json:"working_dir"`
	Timestamp     time.Time  `json:"timestamp"`
	SessionID     string     `json:"session_id"`
	TotalOps      int        `json:"total_operations"`
	SuccessfulOps int        `json:"successful_operations"`
	FailedOps     int        `json:"failed_operations"`
	UndoneAt      *time.Time `json:"undone_at,omitempty"`
}

type LogSession struct {
	Metadata   SessionMetadata `json:"metadata"`
	Operations []OperationLog  `json:"operations"`
}

// Journal records the operations of one run and writes them as a JSON
// session file into its directory. A disabled journal accepts every call
// and writes nothing.
type Journal struct {
	mu      sync.Mutex
	fs      afero.Fs
	clock   clockwork.Clock
	dir     string
	enabled bool
	current *LogSession
}

// NewJournal creates a journal storing sessions under dir.
func NewJournal(fs afero.Fs, clock clockwork.Clock, dir string, enabled bool) *Journal {
	return &Journal{fs: fs, clock: clock, dir: dir, enabled: enabled}
}

// Dir returns the directory session files are written to.
func (j *Journal) Dir() string {
	return j.dir
}

// Enabled reports whether sessions are persisted.
func (j *Journal) Enabled() bool {
	return j.enabled
}

// StartSession begins recording a new session
func (j *Journal) StartSession(command string, args []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.enabled {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	j.current = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			WorkingDir:  wd,
			Timestamp:   j.clock.Now(),
			SessionID:   uuid.New().String(),
		},
		Operations: []OperationLog{},
	}
	return nil
}

// SessionID returns the ID of the running session, or "" when none.
func (j *Journal) SessionID() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.current == nil {
		return ""
	}
	return j.current.Metadata.SessionID
}

// EndSession writes the running session to disk and returns its path. A
// session without operations is discarded.
func (j *Journal) EndSession() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.enabled || j.current == nil {
		return "", nil
	}

	session := j.current
	j.current = nil
	if len(session.Operations) == 0 {
		return "", nil
	}

	updateStats(session)
	path := filepath.Join(j.dir, sessionFileName(session))
	if err := j.write(path, session); err != nil {
		return "", err
	}
	return path, nil
}

// Record appends an operation to the running session
func (j *Journal) Record(opType OperationType, sourcePath, destPath string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.enabled || j.current == nil {
		return
	}

	op := OperationLog{
		ID:         fmt.Sprintf("%s_%d", j.current.Metadata.SessionID, len(j.current.Operations)),
		Timestamp:  j.clock.Now(),
		Type:       opType,
		SourcePath: sourcePath,
		DestPath:   destPath,
		Success:    err == nil,
	}
	if err != nil {
		op.Error = err.Error()
	}

	j.current.Operations = append(j.current.Operations, op)
}

func updateStats(session *LogSession) {
	successful := 0
	failed := 0

	for _, op := range session.Operations {
		if op.Success {
			successful++
		} else {
			failed++
		}
	}

	session.Metadata.TotalOps = len(session.Operations)
	session.Metadata.SuccessfulOps = successful
	session.Metadata.FailedOps = failed
}

// sessionFileName sorts chronologically by name.
func sessionFileName(session *LogSession) string {
	return fmt.Sprintf("%s_%s.json",
		session.Metadata.Timestamp.UTC().Format("2006-01-02_150405.000"),
		session.Metadata.SessionID[:8])
}

func (j *Journal) write(path string, session *LogSession) error {
	if err := j.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := afero.WriteFile(j.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

// ReadSession loads one session file.
func (j *Journal) ReadSession(logPath string) (*LogSession, error) {
	data, err := afero.ReadFile(j.fs, logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// sessionFiles lists session files newest first.
func (j *Journal) sessionFiles() ([]string, error) {
	if exists, _ := afero.DirExists(j.fs, j.dir); !exists {
		return nil, nil
	}

	files, err := afero.Glob(j.fs, filepath.Join(j.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
}

// Summaries returns up to limit sessions, newest first. A limit of zero or
// less returns every session. Unreadable files are skipped.
func (j *Journal) Summaries(limit int) ([]SessionSummary, error) {
	files, err := j.sessionFiles()
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		if limit > 0 && len(summaries) == limit {
			break
		}
		session, err := j.ReadSession(file)
		if err != nil {
			zlog.Warn().Err(err).Str("file", file).Msg("skipping unreadable journal")
			continue
		}
		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: formatRelativeTime(j.clock.Now(), session.Metadata.Timestamp),
		})
	}
	return summaries, nil
}

// FindSession returns the session whose ID starts with id. An empty id
// selects the newest session that has not been undone.
func (j *Journal) FindSession(id string) (*LogSession, string, error) {
	summaries, err := j.Summaries(0)
	if err != nil {
		return nil, "", err
	}

	for _, s := range summaries {
		if id == "" {
			if s.Session.Metadata.UndoneAt == nil {
				return s.Session, s.FilePath, nil
			}
			continue
		}
		if strings.HasPrefix(s.Session.Metadata.SessionID, id) {
			return s.Session, s.FilePath, nil
		}
	}

	if id == "" {
		return nil, "", ErrNoSession
	}
	return nil, "", fmt.Errorf("%w: %s", ErrNoSession, id)
}

// MarkUndone stamps the session at path as undone.
func (j *Journal) MarkUndone(path string) error {
	session, err := j.ReadSession(path)
	if err != nil {
		return err
	}
	now := j.clock.Now()
	session.Metadata.UndoneAt = &now
	return j.write(path, session)
}

// Cleanup removes session files older than retentionDays.
func (j *Journal) Cleanup(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	files, err := j.sessionFiles()
	if err != nil {
		return err
	}

	cutoff := j.clock.Now().AddDate(0, 0, -retentionDays)
	for _, file := range files {
		info, err := j.fs.Stat(file)
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := j.fs.Remove(file); err != nil {
				zlog.Warn().Err(err).Str("file", file).Msg("failed to remove old journal")
				continue
			}
			zlog.Debug().Str("file", file).Msg("removed old journal")
		}
	}
	return nil
}

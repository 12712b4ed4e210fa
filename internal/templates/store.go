// Package templates stores named rename patterns in a SQLite database.
package templates

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dotnetappdev/renameit/internal/naming"
	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound      = errors.New("template not found")
	ErrDuplicateName = errors.New("a template with that name already exists")
)

const sqliteConnParams = "?_journal_mode=WAL&_busy_timeout=5000"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Template is a saved rename pattern.
type Template struct {
	ID          int64     `yaml:"-"`
	Name        string    `yaml:"name"`
	Pattern     string    `yaml:"pattern"`
	Description string    `yaml:"description,omitempty"`
	CreatedAt   time.Time `yaml:"-"`
	UpdatedAt   time.Time `yaml:"-"`
}

// Store reads and writes templates.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (creating when needed) the database at path and brings its
// schema up to date.
func Open(ctx context.Context, path string, clock clockwork.Clock) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	db, err := sql.Open("sqlite3", path+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, clock: clock}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

var migrationMutex sync.Mutex

// gooseZerologAdapter sends goose output to zerolog instead of stdout.
type gooseZerologAdapter struct{}

func (*gooseZerologAdapter) Printf(format string, v ...any) {
	log.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (*gooseZerologAdapter) Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}

// migrateUp serializes access to goose's global state.
func migrateUp(db *sql.DB) error {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	goose.SetLogger(&gooseZerologAdapter{})
	goose.SetBaseFS(migrationFiles)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("error setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("error running migrations up: %w", err)
	}
	return nil
}

const selectColumns = `SELECT ID, Name, Pattern, Description, CreatedAt, UpdatedAt FROM RenameTemplates`

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (Template, error) {
	var (
		t                  Template
		created, updated string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Pattern, &t.Description, &created, &updated); err != nil {
		return Template{}, err
	}

	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Template{}, fmt.Errorf("template %d: bad created time: %w", t.ID, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return Template{}, fmt.Errorf("template %d: bad updated time: %w", t.ID, err)
	}
	return t, nil
}

// List returns every template ordered by name.
func (s *Store) List(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY Name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var list []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return list, nil
}

// Get returns the template with id.
func (s *Store) Get(ctx context.Context, id int64) (Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, selectColumns+` WHERE ID = ?;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return Template{}, fmt.Errorf("failed to get template %d: %w", id, err)
	}
	return t, nil
}

// GetByName returns the template named name, ignoring case.
func (s *Store) GetByName(ctx context.Context, name string) (Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, selectColumns+` WHERE Name = ?;`, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Template{}, fmt.Errorf("failed to get template %q: %w", name, err)
	}
	return t, nil
}

// Resolve looks ref up as a numeric ID first, then as a name.
func (s *Store) Resolve(ctx context.Context, ref string) (Template, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		t, err := s.Get(ctx, id)
		if !errors.Is(err, ErrNotFound) {
			return t, err
		}
	}
	return s.GetByName(ctx, ref)
}

func validateTemplate(t *Template) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	if t.Name == "" {
		return errors.New("template name is required")
	}
	if strings.TrimSpace(t.Pattern) == "" {
		return errors.New("template pattern is required")
	}
	return naming.Validate(t.Pattern)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Add inserts t and fills in its ID and timestamps.
func (s *Store) Add(ctx context.Context, t *Template) error {
	if err := validateTemplate(t); err != nil {
		return err
	}

	now := s.clock.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO RenameTemplates (Name, Pattern, Description, CreatedAt, UpdatedAt) VALUES (?, ?, ?, ?, ?);`,
		t.Name, t.Pattern, t.Description, formatTime(now), formatTime(now),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, t.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read template id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// Update stores the name, pattern and description of t under t.ID.
func (s *Store) Update(ctx context.Context, t *Template) error {
	if err := validateTemplate(t); err != nil {
		return err
	}

	now := s.clock.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE RenameTemplates SET Name = ?, Pattern = ?, Description = ?, UpdatedAt = ? WHERE ID = ?;`,
		t.Name, t.Pattern, t.Description, formatTime(now), t.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, t.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to update template %d: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, t.ID)
	}
	t.UpdatedAt = now
	return nil
}

// Delete removes the template with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM RenameTemplates WHERE ID = ?;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// Defaults are the templates seeded into an empty store.
func Defaults() []Template {
	return []Template{
		{
			Name:        "TV Show - Standard",
			Pattern:     "{n} - {s00e00} - {t}",
			Description: "Standard TV show format (e.g., Breaking Bad - S01E02 - Cat's in the Bag)",
		},
		{
			Name:        "TV Show - Compact",
			Pattern:     "{n} {sxe} {t}",
			Description: "Compact TV show format (e.g., Breaking Bad 1x02 Cat's in the Bag)",
		},
		{
			Name:        "Movie - Standard",
			Pattern:     "{n} ({y})",
			Description: "Standard movie format (e.g., The Matrix (1999))",
		},
		{
			Name:        "TV Show - Custom Season",
			Pattern:     "{n} - Season {s} Episode {e}",
			Description: "TV show format with full words",
		},
	}
}

// SeedDefaults adds Defaults when the store is empty and returns how many
// templates were added.
func (s *Store) SeedDefaults(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM RenameTemplates;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	added := 0
	for _, t := range Defaults() {
		if err := s.Add(ctx, &t); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

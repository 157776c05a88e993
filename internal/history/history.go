// Package history records the outcome of every evaluated command to a
// local SQLite database, for `dcg history` and the `dcg tui` history browser. It
// sits entirely outside the core evaluation pipeline: a write failure here
// never changes a Decision's verdict.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrEntryNotFound is returned when a CommandEntry lookup misses.
var ErrEntryNotFound = errors.New("history entry not found")

// Entry is one recorded evaluation outcome.
type Entry struct {
	ID          string
	Command     string
	Verdict     string
	PackID      string
	PatternName string
	Reason      string
	Actor       string
	ProjectPath string
	Timeout     bool
	CreatedAt   time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS command_history (
	id TEXT PRIMARY KEY,
	command TEXT NOT NULL,
	verdict TEXT NOT NULL,
	pack_id TEXT NOT NULL DEFAULT '',
	pattern_name TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	actor TEXT NOT NULL DEFAULT '',
	project_path TEXT NOT NULL DEFAULT '',
	timed_out INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_command_history_project_created
	ON command_history (project_path, created_at DESC);
`

// DB wraps a SQLite connection holding the command_history table.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Record inserts a new history entry, generating an ID and timestamp if unset.
func (db *DB) Record(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	timedOut := 0
	if e.Timeout {
		timedOut = 1
	}

	_, err := db.conn.Exec(`
		INSERT INTO command_history
			(id, command, verdict, pack_id, pattern_name, reason, actor, project_path, timed_out, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Command, e.Verdict, e.PackID, e.PatternName, e.Reason, e.Actor, e.ProjectPath, timedOut,
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording history entry: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries for projectPath, most recent first.
// An empty projectPath lists across all projects.
func (db *DB) ListRecent(projectPath string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error
	if projectPath == "" {
		rows, err = db.conn.Query(`
			SELECT id, command, verdict, pack_id, pattern_name, reason, actor, project_path, timed_out, created_at
			FROM command_history ORDER BY created_at DESC LIMIT ?
		`, limit)
	} else {
		rows, err = db.conn.Query(`
			SELECT id, command, verdict, pack_id, pattern_name, reason, actor, project_path, timed_out, created_at
			FROM command_history WHERE project_path = ? ORDER BY created_at DESC LIMIT ?
		`, projectPath, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// GetByID retrieves a single entry.
func (db *DB) GetByID(id string) (*Entry, error) {
	row := db.conn.QueryRow(`
		SELECT id, command, verdict, pack_id, pattern_name, reason, actor, project_path, timed_out, created_at
		FROM command_history WHERE id = ?
	`, id)

	e := &Entry{}
	var createdAt string
	var timedOut int
	err := row.Scan(&e.ID, &e.Command, &e.Verdict, &e.PackID, &e.PatternName, &e.Reason, &e.Actor,
		&e.ProjectPath, &timedOut, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("scanning history entry: %w", err)
	}
	e.Timeout = timedOut != 0
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return e, nil
}

// PruneOlderThan deletes entries older than retention, returning the count removed.
func (db *DB) PruneOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339)
	result, err := db.conn.Exec(`DELETE FROM command_history WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	return result.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var createdAt string
		var timedOut int
		if err := rows.Scan(&e.ID, &e.Command, &e.Verdict, &e.PackID, &e.PatternName, &e.Reason, &e.Actor,
			&e.ProjectPath, &timedOut, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Timeout = timedOut != 0
		var err error
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

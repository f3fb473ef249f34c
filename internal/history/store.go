// Package history persists session transcripts in SQLite.
//
// Every session gets a row in sessions; every user and assistant turn gets a
// row in turns keyed by (session_id, seq). The store is append-only apart
// from EndSession, which stamps the end time and the reason the session
// closed.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Session is a stored session header.
type Session struct {
	ID        string  `json:"id"`
	Mode      string  `json:"mode"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	TurnCount int     `json:"turn_count"`
}

// Turn is one stored transcript entry.
type Turn struct {
	SessionID string `json:"session_id"`
	Seq       int    `json:"seq"`
	Role      string `json:"role"`
	Phase     string `json:"phase,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Store is the SQLite-backed transcript store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("history: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			mode       TEXT NOT NULL,
			started_at TEXT NOT NULL DEFAULT (datetime('now')),
			ended_at   TEXT,
			reason     TEXT
		);

		CREATE TABLE IF NOT EXISTS turns (
			session_id TEXT    NOT NULL,
			seq        INTEGER NOT NULL,
			role       TEXT    NOT NULL,
			phase      TEXT,
			content    TEXT    NOT NULL,
			created_at TEXT    NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (session_id, seq),
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StartSession registers a session. Registering an existing id is a no-op.
func (s *Store) StartSession(id, mode string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO sessions (id, mode) VALUES (?, ?)`, id, mode)
	return err
}

// EndSession marks a session as closed.
func (s *Store) EndSession(id, reason string) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET ended_at = datetime('now'), reason = ? WHERE id = ? AND ended_at IS NULL`,
		nullableString(reason), id,
	)
	return err
}

// AppendTurns stores turns with consecutive sequence numbers starting at
// firstSeq, in one transaction.
func (s *Store) AppendTurns(sessionID string, firstSeq int, turns []Turn) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for i, t := range turns {
		if _, err := tx.Exec(
			`INSERT INTO turns (session_id, seq, role, phase, content) VALUES (?, ?, ?, ?, ?)`,
			sessionID, firstSeq+i, t.Role, nullableString(t.Phase), t.Content,
		); err != nil {
			return fmt.Errorf("history: insert turn %d: %w", firstSeq+i, err)
		}
	}
	return tx.Commit()
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT s.id, s.mode, s.started_at, s.ended_at, s.reason, COUNT(t.seq)
		FROM sessions s LEFT JOIN turns t ON t.session_id = s.id
		WHERE s.id = ?
		GROUP BY s.id`, id)

	var sess Session
	if err := row.Scan(&sess.ID, &sess.Mode, &sess.StartedAt, &sess.EndedAt, &sess.Reason, &sess.TurnCount); err != nil {
		return nil, err
	}
	return &sess, nil
}

// RecentSessions returns the latest sessions first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT s.id, s.mode, s.started_at, s.ended_at, s.reason, COUNT(t.seq)
		FROM sessions s LEFT JOIN turns t ON t.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at DESC, s.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Mode, &sess.StartedAt, &sess.EndedAt, &sess.Reason, &sess.TurnCount); err != nil {
			return nil, err
		}
		results = append(results, sess)
	}
	return results, rows.Err()
}

// Turns returns the turns of a session in order.
func (s *Store) Turns(sessionID string) ([]Turn, error) {
	rows, err := s.db.Query(`
		SELECT session_id, seq, role, COALESCE(phase, ''), content, created_at
		FROM turns WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.SessionID, &t.Seq, &t.Role, &t.Phase, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

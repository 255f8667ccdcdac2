// Package storage provides SQLite-based persistence for play history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is where the history database lives unless overridden.
const DefaultPath = "~/.chip8/history.db"

// Store manages the SQLite database connection for session history.
type Store struct {
	db *sql.DB
}

// Session is one finished run of a program.
type Session struct {
	ID        int64
	ROMName   string
	ROMSHA1   string
	Processor string
	Frontend  string // "window", "terminal" or "ssh"
	Frames    uint64
	Steps     uint64
	Ticks     uint64
	Duration  time.Duration
	CreatedAt time.Time
}

// ROMStats contains aggregated history for one program image.
type ROMStats struct {
	ROMSHA1    string
	ROMName    string
	Sessions   int
	Frames     uint64
	Steps      uint64
	PlayTime   time.Duration
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rom_name TEXT NOT NULL,
			rom_sha1 TEXT NOT NULL,
			processor TEXT NOT NULL,
			frontend TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_rom ON sessions(rom_sha1);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(sess Session) (int64, error) {
	if sess.ROMSHA1 == "" {
		return 0, errors.New("storage: session has no rom hash")
	}

	result, err := s.db.Exec(
		`INSERT INTO sessions
		 (rom_name, rom_sha1, processor, frontend, frames, steps, ticks, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ROMName,
		sess.ROMSHA1,
		sess.Processor,
		sess.Frontend,
		int64(sess.Frames),
		int64(sess.Steps),
		int64(sess.Ticks),
		sess.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, rom_name, rom_sha1, processor, frontend, frames, steps, ticks, duration_ms, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

// SessionsForROM retrieves the sessions of one program image, newest first.
func (s *Store) SessionsForROM(sha1 string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, rom_name, rom_sha1, processor, frontend, frames, steps, ticks, duration_ms, created_at
		 FROM sessions
		 WHERE rom_sha1 = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sha1, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess                 Session
			frames, steps, ticks int64
			durationMS           int64
			createdAt            any
		)
		if err := rows.Scan(
			&sess.ID,
			&sess.ROMName,
			&sess.ROMSHA1,
			&sess.Processor,
			&sess.Frontend,
			&frames,
			&steps,
			&ticks,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		sess.Frames = uint64(frames)
		sess.Steps = uint64(steps)
		sess.Ticks = uint64(ticks)
		sess.Duration = time.Duration(durationMS) * time.Millisecond
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// ROMStats retrieves aggregated history per program image, most recently
// played first.
func (s *Store) ROMStats() ([]ROMStats, error) {
	rows, err := s.db.Query(
		`SELECT rom_sha1, MAX(rom_name), COUNT(*), SUM(frames), SUM(steps), SUM(duration_ms), MAX(created_at), MAX(id) AS last_id
		 FROM sessions
		 GROUP BY rom_sha1
		 ORDER BY last_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get rom stats: %w", err)
	}
	defer rows.Close()

	var stats []ROMStats
	for rows.Next() {
		var (
			st                ROMStats
			frames, steps, ms int64
			lastPlayed        any
			lastID            int64
		)
		if err := rows.Scan(&st.ROMSHA1, &st.ROMName, &st.Sessions, &frames, &steps, &ms, &lastPlayed, &lastID); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}

		st.Frames = uint64(frames)
		st.Steps = uint64(steps)
		st.PlayTime = time.Duration(ms) * time.Millisecond
		st.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearSessions deletes the history of one program image, or all history when
// sha1 is empty.
func (s *Store) ClearSessions(sha1 string) error {
	var err error
	if sha1 == "" {
		_, err = s.db.Exec("DELETE FROM sessions")
	} else {
		_, err = s.db.Exec("DELETE FROM sessions WHERE rom_sha1 = ?", sha1)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

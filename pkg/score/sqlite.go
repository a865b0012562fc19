package score

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps scores in a SQLite database
type SQLiteStore struct {
	db        *sql.DB
	sessionID string
}

// OpenSQLite opens (and if needed creates) the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps SQLite writes serialized
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			session_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_name ON scores(name)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table (%s): %w", query, err)
		}
	}
	return nil
}

// SetSession tags the following saves with a session ID
func (s *SQLiteStore) SetSession(id string) {
	s.sessionID = id
}

// SaveScore inserts a finished game
func (s *SQLiteStore) SaveScore(name string, score int) error {
	_, err := s.db.Exec(
		`INSERT INTO scores (name, score, session_id) VALUES (?, ?, ?)`,
		storedName(name), score, nullable(s.sessionID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}
	return nil
}

// Import inserts entries in one transaction, tagging them with source
func (s *SQLiteStore) Import(entries []Entry, source string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO scores (name, score, session_id) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to prepare import: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(storedName(e.Name), e.Score, nullable(source)); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to import entry %d (%s): %w", i, e.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(entries), nil
}

// LoadHighscore returns the best score saved for name, or 0
func (s *SQLiteStore) LoadHighscore(name string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(score) FROM scores WHERE name = ?`, name).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("failed to query highscore: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// Toplist returns the n best games, earlier games first on ties
func (s *SQLiteStore) Toplist(n int) ([]Entry, error) {
	rows, err := s.db.Query(`SELECT name, score FROM scores ORDER BY score DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query toplist: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan toplist row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

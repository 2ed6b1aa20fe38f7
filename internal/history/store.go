package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry is a single submitted search
type Entry struct {
	ID         int
	Source     string
	Query      string
	Results    int
	ExecutedAt time.Time
}

// Store persists search history in SQLite
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at path
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	_, err = db.Exec(schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records a search. Blank queries are ignored.
func (s *Store) Add(entry Entry) error {
	query := strings.TrimSpace(entry.Query)
	if query == "" {
		return nil
	}
	executedAt := entry.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO search_history (source, query, results, executed_at)
		VALUES (?, ?, ?, ?)`,
		entry.Source,
		query,
		entry.Results,
		executedAt.UnixNano(),
	)
	return err
}

// Recent returns distinct queries, most recently used first
func (s *Store) Recent(limit int) ([]string, error) {
	return s.queries(`
		SELECT query FROM search_history
		GROUP BY query
		ORDER BY MAX(executed_at) DESC, MAX(id) DESC
		LIMIT ?`, limit)
}

// Search returns distinct queries starting with prefix, most recent first
func (s *Store) Search(prefix string, limit int) ([]string, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return s.queries(`
		SELECT query FROM search_history
		WHERE query LIKE ? ESCAPE '\'
		GROUP BY query
		ORDER BY MAX(executed_at) DESC, MAX(id) DESC
		LIMIT ?`, escaped+"%", limit)
}

// Entries returns the raw history for a source, newest first
func (s *Store) Entries(source string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, source, query, results, executed_at
		FROM search_history
		WHERE source = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, source, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var executedAt int64

		if err := rows.Scan(&e.ID, &e.Source, &e.Query, &e.Results, &executedAt); err != nil {
			return nil, err
		}
		e.ExecutedAt = time.Unix(0, executedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Prune keeps only the newest keep entries
func (s *Store) Prune(keep int) error {
	_, err := s.db.Exec(`
		DELETE FROM search_history
		WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY executed_at DESC, id DESC LIMIT ?
		)`, keep)
	return err
}

func (s *Store) queries(stmt string, args ...any) ([]string, error) {
	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Actions recorded in the history
const (
	ActionFilter = "filter"
	ActionExport = "export"
)

// Entry is one recorded evaluation or export
type Entry struct {
	ID           int
	Source       string
	Action       string
	Filters      string
	GroupCount   int
	FilterCount  int
	MatchedRows  int
	TotalRows    int
	Duration     time.Duration
	Success      bool
	ErrorMessage string
	ExecutedAt   time.Time
}

// Store persists filter runs in SQLite
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
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records a run. A zero ExecutedAt is stamped with the current time.
func (s *Store) Add(entry Entry) error {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}
	if entry.Action == "" {
		entry.Action = ActionFilter
	}

	_, err := s.db.Exec(`
		INSERT INTO filter_runs
		(source, action, filters, group_count, filter_count, matched_rows, total_rows,
		 duration_ms, success, error_message, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Source,
		entry.Action,
		entry.Filters,
		entry.GroupCount,
		entry.FilterCount,
		entry.MatchedRows,
		entry.TotalRows,
		entry.Duration.Milliseconds(),
		entry.Success,
		entry.ErrorMessage,
		entry.ExecutedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record filter run: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, source, action, filters, group_count, filter_count, matched_rows,
	       total_rows, duration_ms, success, error_message, executed_at
	FROM filter_runs`

// GetRecent returns the most recent runs, newest first
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(selectColumns+`
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return scanEntries(rows)
}

// Search returns runs whose filters or source contain text
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	pattern := "%" + text + "%"
	rows, err := s.db.Query(selectColumns+`
		WHERE filters LIKE ? OR source LIKE ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs, executedAt int64

		err := rows.Scan(
			&e.ID,
			&e.Source,
			&e.Action,
			&e.Filters,
			&e.GroupCount,
			&e.FilterCount,
			&e.MatchedRows,
			&e.TotalRows,
			&durationMs,
			&e.Success,
			&e.ErrorMessage,
			&executedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.ExecutedAt = time.UnixMilli(executedAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

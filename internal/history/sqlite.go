package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createCalculationsTable = `
CREATE TABLE IF NOT EXISTS calculations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	operation  TEXT NOT NULL,
	operand1   REAL NOT NULL,
	operand2   REAL NOT NULL,
	result     REAL NOT NULL,
	created_at TEXT NOT NULL
);`

// SQLiteStore implements Store on a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if absent) the database at path and ensures
// the schema exists. Safe to call on every startup.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// A single connection serialises appends, so identifier assignment
	// and commit order agree even under concurrent requests, and the
	// driver never reports SQLITE_BUSY to callers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createCalculationsTable); err != nil {
		return fmt.Errorf("create calculations table: %w", err)
	}
	return nil
}

// Append writes one immutable record and returns it with the
// store-assigned identifier and creation timestamp. The insert is
// committed before Append returns.
func (s *SQLiteStore) Append(ctx context.Context, operation string, operand1, operand2, result float64) (Record, error) {
	createdAt := time.Now().UTC()

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO calculations (operation, operand1, operand2, result, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`,
		operation, operand1, operand2, result, createdAt.Format(time.RFC3339Nano),
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return Record{}, unavailable("append", err)
	}

	return Record{
		ID:        id,
		Operation: operation,
		Operand1:  operand1,
		Operand2:  operand2,
		Result:    result,
		CreatedAt: createdAt,
	}, nil
}

// ListRecent returns up to limit records, newest first by identifier.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, operand1, operand2, result, created_at
		 FROM calculations
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		var (
			r         Record
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Operation, &r.Operand1, &r.Operand2, &r.Result, &createdAt); err != nil {
			return nil, unavailable("scan", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, unavailable("parse timestamp", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	return records, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

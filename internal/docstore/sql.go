package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore keeps documents in a single table of a SQL database
type SQLStore struct {
	db          *sql.DB
	selectQuery string
	upsertQuery string
}

var _ Store = (*SQLStore)(nil)

// OpenSQLite opens (or creates) a SQLite database file
func OpenSQLite(dbPath string) (*SQLStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	return openSQL("sqlite", dbPath,
		`SELECT body FROM documents WHERE name = ?`,
		`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
	)
}

// OpenPostgres connects to a PostgreSQL database
func OpenPostgres(url string) (*SQLStore, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres url is required")
	}

	return openSQL("postgres", url,
		`SELECT body FROM documents WHERE name = $1`,
		`INSERT INTO documents (name, body, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
		 ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
	)
}

func openSQL(driver, dsn, selectQuery, upsertQuery string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLStore{db: db, selectQuery: selectQuery, upsertQuery: upsertQuery}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// migrate creates the database schema
func (s *SQLStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			name VARCHAR(100) PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Read loads a document body
func (s *SQLStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx, s.selectQuery, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return []byte(body), nil
}

// Write upserts a document body
func (s *SQLStore) Write(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.upsertQuery, name, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

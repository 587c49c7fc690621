package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite is an embedded transactional store backed by a single kv table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database file at path. WAL mode and a
// busy timeout keep concurrent run-phase writers from failing on the
// single-writer lock.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Init() error {
	_, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS kv (k BLOB PRIMARY KEY, v BLOB NOT NULL)`,
	)
	if err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}

	return nil
}

func (s *SQLite) Get(key []byte) error {
	var v []byte

	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}

	return err
}

func (s *SQLite) Set(key, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (k, v) VALUES (?, ?)
		 ON CONFLICT (k) DO UPDATE SET v = excluded.v`,
		key, value,
	)

	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

package kvstore

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists the key-value pairs in a single SQLite table on the
// local disk, shared by every widget process on the same machine.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	// A single connection keeps our own writes out of DataVersion and
	// sidesteps SQLITE_BUSY; the widget's traffic is one tab click at a time.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLiteStore) Set(key string, value []byte) error {
	// Last write wins, no merge.
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}

// DataVersion exposes SQLite's data_version counter: it moves whenever
// another connection (typically another widget process on this machine)
// modified the database. Polling it is how external changes are noticed.
func (s *SQLiteStore) DataVersion() (int64, error) {
	var v int64
	if err := s.db.QueryRow("PRAGMA data_version").Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

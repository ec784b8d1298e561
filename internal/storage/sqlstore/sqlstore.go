// Package sqlstore implements storage.Storage on a single key/value table,
// backed by SQLite or MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"todo/internal/storage"
)

// Dialect selects the driver and the SQL variants it needs.
type Dialect string

const (
	SQLite Dialect = "sqlite"
	MySQL  Dialect = "mysql"
)

// Store persists keys in table kv(k, v).
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
	mu      sync.Mutex
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(path string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return Open(SQLite, path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", logger)
}

// Open connects with the given dialect and data source name and ensures
// the schema exists.
func Open(dialect Dialect, dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch dialect {
	case SQLite, MySQL:
	default:
		return nil, fmt.Errorf("unsupported sql dialect: %s", dialect)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == SQLite {
		// One writer at a time; avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, dialect: dialect, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	var schema string
	switch s.dialect {
	case MySQL:
		schema = `CREATE TABLE IF NOT EXISTS kv (
			k VARCHAR(191) NOT NULL PRIMARY KEY,
			v LONGBLOB NOT NULL
		)`
	default:
		schema = `CREATE TABLE IF NOT EXISTS kv (
			k TEXT NOT NULL PRIMARY KEY,
			v BLOB NOT NULL
		)`
	}
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) upsertQuery() string {
	if s.dialect == MySQL {
		return `INSERT INTO kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`
	}
	return `INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`
}

// Get implements storage.Storage.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	s.logger.Debug("read row", zap.String("key", key), zap.Int("bytes", len(data)))
	return data, nil
}

// Put implements storage.Storage.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, s.upsertQuery(), key, data); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	s.logger.Debug("wrote row", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Close implements storage.Storage.
func (s *Store) Close() error {
	return s.db.Close()
}

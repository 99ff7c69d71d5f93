package profilestore

import (
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store keeps account records in postgres when a DSN is configured, or in a
// JSON file otherwise.
type Store struct {
	file *fileBackend
	db   *sql.DB

	schema schemaGuard
}

// New returns a file-backed store rooted at path.
func New(path string) *Store {
	return &Store{file: newFileBackend(path)}
}

// NewPostgres connects to the given DSN.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewFromEnv picks postgres when dsn is non-empty and falls back to the file
// backend when the connection fails.
func NewFromEnv(path, dsn string) *Store {
	if strings.TrimSpace(dsn) == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Get(userID string) (Record, bool, error) {
	if s == nil {
		return Record{}, false, nil
	}
	if s.db != nil {
		return s.getDB(userID)
	}
	return s.file.get(userID)
}

func (s *Store) Put(rec Record) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.putDB(rec)
	}
	return s.file.put(rec)
}

func (s *Store) Delete(userID string) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.deleteDB(userID)
	}
	return s.file.delete(userID)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

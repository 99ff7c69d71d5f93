package progressstore

import (
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"breathefree/internal/progress"
)

// Store keeps one progress aggregate per account, in postgres when a DSN is
// configured or in a JSON file otherwise. It satisfies progress.Saver.
type Store struct {
	file *fileBackend
	db   *sql.DB

	schema schemaGuard
}

func New(path string) *Store {
	return &Store{file: newFileBackend(path)}
}

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

func (s *Store) Get(userID string) (progress.Data, bool, error) {
	if s == nil {
		return progress.Data{}, false, nil
	}
	if s.db != nil {
		return s.getDB(userID)
	}
	return s.file.get(userID)
}

// Save upserts the aggregate for userID.
func (s *Store) Save(userID string, d progress.Data) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.saveDB(userID, d)
	}
	return s.file.save(userID, d)
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

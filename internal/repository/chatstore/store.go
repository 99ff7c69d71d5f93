package chatstore

import (
	"database/sql"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Message is one entry in the append-only per-account chat log.
type Message struct {
	Role      string    `json:"role"` // "user" or "model"
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultHistoryLimit bounds rehydration reads.
const DefaultHistoryLimit = 50

// Store keeps chat logs in postgres when a DSN is configured, or in a JSON
// file otherwise. The postgres path fronts history reads with an LRU cache
// invalidated on append.
type Store struct {
	file *fileBackend
	db   *sql.DB

	schema       schemaGuard
	historyCache *lru.Cache[string, []Message]
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
	cache, err := lru.New[string, []Message](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, historyCache: cache}, nil
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

// Append adds one message to the account's log.
func (s *Store) Append(userID string, msg Message) error {
	if s == nil {
		return nil
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if s.db != nil {
		err := s.appendDB(userID, msg)
		if err == nil && s.historyCache != nil {
			s.historyCache.Remove(userID)
		}
		return err
	}
	return s.file.append(userID, msg)
}

// History returns up to limit most recent messages in creation order.
func (s *Store) History(userID string, limit int) ([]Message, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if s.db != nil {
		if s.historyCache != nil {
			if cached, ok := s.historyCache.Get(userID); ok {
				return cached, nil
			}
		}
		msgs, err := s.historyDB(userID, limit)
		if err != nil {
			return nil, err
		}
		if s.historyCache != nil {
			s.historyCache.Add(userID, msgs)
		}
		return msgs, nil
	}
	return s.file.history(userID, limit)
}

// HistoryAll returns the account's entire log in creation order. The export
// path uses it so an archive never truncates the transcript.
func (s *Store) HistoryAll(userID string) ([]Message, error) {
	if s == nil {
		return nil, nil
	}
	if s.db != nil {
		return s.historyAllDB(userID)
	}
	return s.file.historyAll(userID)
}

// Clear deletes the account's log.
func (s *Store) Clear(userID string) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		err := s.clearDB(userID)
		if err == nil && s.historyCache != nil {
			s.historyCache.Remove(userID)
		}
		return err
	}
	return s.file.clear(userID)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

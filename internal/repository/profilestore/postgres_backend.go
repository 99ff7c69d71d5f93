package profilestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"breathefree/internal/repository/repoerr"
)

type schemaGuard struct {
	once sync.Once
	err  error
}

func (s *Store) ensureSchema() error {
	s.schema.once.Do(func() {
		_, s.schema.err = s.db.Exec(`
CREATE TABLE IF NOT EXISTS account_records (
  user_id TEXT PRIMARY KEY,
  data JSONB NOT NULL
);
`)
	})
	return s.schema.err
}

func (s *Store) getDB(userID string) (Record, bool, error) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false, repoerr.Wrap("profile schema", err)
	}
	id := strings.TrimSpace(userID)
	if id == "" {
		return Record{}, false, nil
	}
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM account_records WHERE user_id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, repoerr.Wrap("profile get", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, repoerr.Wrap("profile decode", err)
	}
	return rec, true, nil
}

func (s *Store) putDB(rec Record) error {
	if err := s.ensureSchema(); err != nil {
		return repoerr.Wrap("profile schema", err)
	}
	if strings.TrimSpace(rec.UserID) == "" {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return repoerr.Wrap("profile encode", err)
	}
	_, err = s.db.Exec(`
INSERT INTO account_records (user_id, data)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data`,
		rec.UserID, data)
	return repoerr.Wrap("profile put", err)
}

func (s *Store) deleteDB(userID string) error {
	if err := s.ensureSchema(); err != nil {
		return repoerr.Wrap("profile schema", err)
	}
	_, err := s.db.Exec(`DELETE FROM account_records WHERE user_id = $1`, strings.TrimSpace(userID))
	return repoerr.Wrap("profile delete", err)
}

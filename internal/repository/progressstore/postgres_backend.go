package progressstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"breathefree/internal/progress"
	"breathefree/internal/repository/repoerr"
)

type schemaGuard struct {
	once sync.Once
	err  error
}

func (s *Store) ensureSchema() error {
	s.schema.once.Do(func() {
		_, s.schema.err = s.db.Exec(`
CREATE TABLE IF NOT EXISTS progress_records (
  user_id TEXT PRIMARY KEY,
  data JSONB NOT NULL,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schema.err
}

func (s *Store) getDB(userID string) (progress.Data, bool, error) {
	if err := s.ensureSchema(); err != nil {
		return progress.Data{}, false, repoerr.Wrap("progress schema", err)
	}
	id := strings.TrimSpace(userID)
	if id == "" {
		return progress.Data{}, false, nil
	}
	var raw []byte
	err := s.db.QueryRow(`SELECT data FROM progress_records WHERE user_id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Data{}, false, nil
	}
	if err != nil {
		return progress.Data{}, false, repoerr.Wrap("progress get", err)
	}
	var d progress.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return progress.Data{}, false, repoerr.Wrap("progress decode", err)
	}
	return d, true, nil
}

func (s *Store) saveDB(userID string, d progress.Data) error {
	if err := s.ensureSchema(); err != nil {
		return repoerr.Wrap("progress schema", err)
	}
	id := strings.TrimSpace(userID)
	if id == "" {
		return nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return repoerr.Wrap("progress encode", err)
	}
	_, err = s.db.Exec(`
INSERT INTO progress_records (user_id, data, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		id, raw)
	return repoerr.Wrap("progress save", err)
}

func (s *Store) deleteDB(userID string) error {
	if err := s.ensureSchema(); err != nil {
		return repoerr.Wrap("progress schema", err)
	}
	_, err := s.db.Exec(`DELETE FROM progress_records WHERE user_id = $1`, strings.TrimSpace(userID))
	return repoerr.Wrap("progress delete", err)
}

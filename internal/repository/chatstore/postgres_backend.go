package chatstore

import (
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
CREATE TABLE IF NOT EXISTS chat_messages (
  id BIGSERIAL PRIMARY KEY,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  text TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS chat_messages_user_idx ON chat_messages (user_id, id);
`)
	})
	return s.schema.err
}

func (s *Store) appendDB(userID string, msg Message) error {
	if err := s.ensureSchema(); err != nil {
		return repoerr.Wrap("chat schema", err)
	}
	id := strings.TrimSpace(userID)
	if id == "" {
		return nil
	}
	_, err := s.db.Exec(`
INSERT INTO chat_messages (user_id, role, text, created_at)
VALUES ($1, $2, $3, $4)`,
		id, msg.Role, msg.Text, msg.CreatedAt)
	return repoerr.Wrap("chat append", err)
}

func (s *Store) historyDB(userID string, limit int) ([]Message, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, repoerr.Wrap("chat schema", err)
	}
	id := strings.TrimSpace(userID)
	if id == "" {
		return nil, nil
	}
	// Fetch the newest rows, then reverse into creation order.
	rows, err := s.db.Query(`
SELECT role, text, created_at FROM chat_messages
WHERE user_id = $1
ORDER BY id DESC
LIMIT $2`, id, limit)
	if err != nil {
		return nil, repoerr.Wrap("chat history", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, repoerr.Wrap("chat history", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, repoerr.Wrap("chat history", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *Store) historyAllDB(userID string) ([]Message, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, repoerr.Wrap("chat schema", err)
	}
	id := strings.TrimSpace(userID)
	if id == "" {
		return nil, nil
	}
	rows, err := s.db.Query(`
SELECT role, text, created_at FROM chat_messages
WHERE user_id = $1
ORDER BY id ASC`, id)
	if err != nil {
		return nil, repoerr.Wrap("chat history", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, repoerr.Wrap("chat history", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, repoerr.Wrap("chat history", err)
	}
	return msgs, nil
}

func (s *Store) clearDB(userID string) error {
	if err := s.ensureSchema(); err != nil {
		return repoerr.Wrap("chat schema", err)
	}
	_, err := s.db.Exec(`DELETE FROM chat_messages WHERE user_id = $1`, strings.TrimSpace(userID))
	return repoerr.Wrap("chat clear", err)
}

package chatstore

import (
	"encoding/json"
	"os"
	"sync"

	"breathefree/internal/repository/repoerr"
)

type fileBackend struct {
	path string

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string][]Message
}

func newFileBackend(path string) *fileBackend {
	return &fileBackend{path: path, byID: make(map[string][]Message)}
}

func (f *fileBackend) append(userID string, msg Message) error {
	f.ensureLoaded()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[userID] = append(f.byID[userID], msg)
	return repoerr.Wrap("chat append", f.saveLocked())
}

func (f *fileBackend) history(userID string, limit int) ([]Message, error) {
	f.ensureLoaded()
	f.mu.RLock()
	defer f.mu.RUnlock()
	msgs := f.byID[userID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]Message(nil), msgs...), nil
}

func (f *fileBackend) historyAll(userID string) ([]Message, error) {
	f.ensureLoaded()
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Message(nil), f.byID[userID]...), nil
}

func (f *fileBackend) clear(userID string) error {
	f.ensureLoaded()
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, userID)
	return repoerr.Wrap("chat clear", f.saveLocked())
}

func (f *fileBackend) ensureLoaded() {
	f.loadOnce.Do(func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		data, err := os.ReadFile(f.path)
		if err != nil {
			return
		}
		var byID map[string][]Message
		if err := json.Unmarshal(data, &byID); err != nil {
			return
		}
		for id, msgs := range byID {
			f.byID[id] = msgs
		}
	})
}

func (f *fileBackend) saveLocked() error {
	data, err := json.MarshalIndent(f.byID, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

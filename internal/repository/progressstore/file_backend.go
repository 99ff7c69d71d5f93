package progressstore

import (
	"encoding/json"
	"os"
	"sync"

	"breathefree/internal/progress"
	"breathefree/internal/repository/repoerr"
)

type fileBackend struct {
	path string

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]progress.Data
}

func newFileBackend(path string) *fileBackend {
	return &fileBackend{path: path, byID: make(map[string]progress.Data)}
}

func (f *fileBackend) get(userID string) (progress.Data, bool, error) {
	f.ensureLoaded()
	f.mu.RLock()
	defer f.mu.RUnlock()
	d, ok := f.byID[userID]
	return d, ok, nil
}

func (f *fileBackend) save(userID string, d progress.Data) error {
	f.ensureLoaded()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[userID] = d
	return repoerr.Wrap("progress save", f.saveLocked())
}

func (f *fileBackend) delete(userID string) error {
	f.ensureLoaded()
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, userID)
	return repoerr.Wrap("progress delete", f.saveLocked())
}

func (f *fileBackend) ensureLoaded() {
	f.loadOnce.Do(func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		data, err := os.ReadFile(f.path)
		if err != nil {
			return
		}
		var byID map[string]progress.Data
		if err := json.Unmarshal(data, &byID); err != nil {
			return
		}
		for id, d := range byID {
			f.byID[id] = d
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

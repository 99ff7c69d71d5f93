package profilestore

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
	byID     map[string]Record
}

func newFileBackend(path string) *fileBackend {
	return &fileBackend{path: path, byID: make(map[string]Record)}
}

func (f *fileBackend) get(userID string) (Record, bool, error) {
	f.ensureLoaded()
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.byID[userID]
	return rec, ok, nil
}

func (f *fileBackend) put(rec Record) error {
	f.ensureLoaded()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[rec.UserID] = rec
	return repoerr.Wrap("profile put", f.saveLocked())
}

func (f *fileBackend) delete(userID string) error {
	f.ensureLoaded()
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, userID)
	return repoerr.Wrap("profile delete", f.saveLocked())
}

func (f *fileBackend) ensureLoaded() {
	f.loadOnce.Do(func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		data, err := os.ReadFile(f.path)
		if err != nil {
			return
		}
		var recs []Record
		if err := json.Unmarshal(data, &recs); err != nil {
			return
		}
		for _, rec := range recs {
			f.byID[rec.UserID] = rec
		}
	})
}

func (f *fileBackend) saveLocked() error {
	recs := make([]Record, 0, len(f.byID))
	for _, rec := range f.byID {
		recs = append(recs, rec)
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

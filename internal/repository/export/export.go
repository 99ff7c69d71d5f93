// Package export archives an account's data before a reset wipes it. The
// archive is a single JSON object holding everything the stores know about
// the account.
package export

import (
	"context"
	"errors"
	"time"

	"breathefree/internal/progress"
	"breathefree/internal/repository/chatstore"
	"breathefree/internal/repository/profilestore"
)

var ErrNotFound = errors.New("export: archive not found")

// Archive is the full account snapshot written at reset time.
type Archive struct {
	UserID     string              `json:"userId"`
	ExportedAt time.Time           `json:"exportedAt"`
	Record     profilestore.Record `json:"record"`
	Progress   progress.Data       `json:"progress"`
	Chat       []chatstore.Message `json:"chat"`
}

// Store persists archives. Save returns the key the archive was written
// under.
type Store interface {
	Save(ctx context.Context, a Archive) (string, error)
	Load(ctx context.Context, key string) (Archive, error)
}

package userdetails

import (
	"context"
	"encoding/json"
)

// Repo persists resume documents. Upsert replaces the whole resumeData of an
// existing record in one atomic operation and reports whether it was created.
type Repo interface {
	Upsert(ctx context.Context, userID string, data json.RawMessage) (UserDetails, bool, error)
	GetByID(ctx context.Context, userID string) (UserDetails, error)
}

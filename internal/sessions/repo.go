package sessions

import (
	"context"
	"time"
)

// Repo defines persistence operations for sessions.
type Repo interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	// Save replaces the stored session. It returns ErrNotFound for unknown ids.
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
	// PurgeExpired removes sessions that expired at or before now.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

package repositories

import (
	"context"

	"github.com/yshmodi/eiregate/services/pipeline"
)

// SessionRepository persists pipeline session state keyed by thread id.
// Put merges the update into the stored state: set scalars overlay, messages
// append. Get returns (nil, nil) for an unknown thread.
type SessionRepository interface {
	Get(ctx context.Context, threadID string) (*pipeline.SessionState, error)
	Put(ctx context.Context, threadID string, update *pipeline.SessionState) error
	Delete(ctx context.Context, threadID string) error
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/repositories"
	"github.com/yshmodi/eiregate/services"
	"github.com/yshmodi/eiregate/services/pipeline"
)

// SessionRepository implements repositories.SessionRepository on Postgres.
// State is stored as one JSONB document per thread; the merge is done in Go
// with a read-modify-write, which is safe under the single-writer-per-thread
// assumption.
type SessionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB, logger *zap.Logger) repositories.SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the session state for a thread, or (nil, nil) when absent
func (r *SessionRepository) Get(ctx context.Context, threadID string) (*pipeline.SessionState, error) {
	query := `SELECT state FROM pipeline_sessions WHERE thread_id = $1`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, threadID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "database error",
			fmt.Errorf("failed to get session: %w", err))
	}

	var state pipeline.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "database error",
			fmt.Errorf("failed to unmarshal session state: %w", err))
	}
	return &state, nil
}

// Put merges the update into the stored state and upserts the row
func (r *SessionRepository) Put(ctx context.Context, threadID string, update *pipeline.SessionState) error {
	state, err := r.Get(ctx, threadID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &pipeline.SessionState{}
	}
	state.Merge(update)

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	query := `
		INSERT INTO pipeline_sessions (thread_id, state)
		VALUES ($1, $2)
		ON CONFLICT (thread_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query, threadID, raw); err != nil {
		return services.NewDomainError(services.ErrorTypeInternal, "database error",
			fmt.Errorf("failed to upsert session: %w", err))
	}

	r.logger.Debug("session state persisted", zap.String("thread_id", threadID))
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, threadID string) error {
	query := `DELETE FROM pipeline_sessions WHERE thread_id = $1`

	if _, err := r.db.ExecContext(ctx, query, threadID); err != nil {
		return services.NewDomainError(services.ErrorTypeInternal, "database error",
			fmt.Errorf("failed to delete session: %w", err))
	}
	return nil
}

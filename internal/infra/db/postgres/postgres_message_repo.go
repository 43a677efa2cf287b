// File: internal/infra/db/postgres/postgres_message_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"mindmate-chat/internal/domain/model"
	"mindmate-chat/internal/domain/ports/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

// MessageRepo persists conversation exchanges in a single append-only
// table. Records are never updated or deleted; within a session the
// (created_at, id) order is the chronological order because writes are
// serialized per session upstream.
type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// EnsureSchema creates the messages table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
CREATE TABLE IF NOT EXISTS messages (
  id         BIGSERIAL PRIMARY KEY,
  session_id TEXT        NOT NULL,
  user_text  TEXT        NOT NULL,
  model_text TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages (session_id, created_at, id);`
	if _, err := pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *MessageRepo) SaveTurn(ctx context.Context, rec *model.MessageRecord) error {
	const q = `
INSERT INTO messages (session_id, user_text, model_text)
VALUES ($1,$2,$3)
RETURNING id, created_at;`
	if err := r.pool.QueryRow(ctx, q, rec.SessionID, rec.UserText, rec.ModelText).
		Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

func (r *MessageRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.MessageRecord, error) {
	const q = `
SELECT id, session_id, user_text, model_text, created_at
  FROM messages
 WHERE session_id = $1
 ORDER BY created_at ASC, id ASC;`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []*model.MessageRecord
	for rows.Next() {
		var rec model.MessageRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.UserText, &rec.ModelText, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

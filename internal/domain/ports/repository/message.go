package repository

import (
	"context"

	"mindmate-chat/internal/domain/model"
)

// MessageRepository is the append-only store of conversation exchanges.
// No updates, no deletes: SaveTurn inserts one record and fills in its
// ID and CreatedAt; ListBySession returns a session's records in
// ascending chronological order.
type MessageRepository interface {
	SaveTurn(ctx context.Context, rec *model.MessageRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]*model.MessageRecord, error)
}
